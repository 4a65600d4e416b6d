// Package notifier delivers raid reports to chat webhooks.
//
// Discord webhook URLs are sent through discordgo; any other http(s) URL receives a
// plain JSON POST with the report in its "content" field. Each report is sent once:
// failures are returned to the caller and never retried.
package notifier
