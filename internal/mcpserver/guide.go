package mcpserver

// FormatGuide explains daily folders and the date pattern tokens to LLM
// clients before they create or rename daily folders.
const FormatGuide = `# Daily Folder Format Guide

A daily folder is a folder directly inside the daily root whose note has
the same name as the folder:

` + "```" + `
<root>/<date><suffix>/<date><suffix>.md
` + "```" + `

- ` + "`<date>`" + ` is today's date written with the configured pattern.
- ` + "`<suffix>`" + ` is empty, or "_" followed by the description with every
  space replaced by "_" (` + "`team sync`" + ` becomes ` + "`_team_sync`" + `).
- Only folders one level below the root are recognized.

## Pattern tokens

| token | meaning | example |
|---|---|---|
| YYYY / YY | year | 2024 / 24 |
| Q | quarter | 1 |
| MM / M | month number | 01 / 1 |
| MMM / MMMM | month name | Jan / January |
| DD / D / Do | day of month | 02 / 2 / 2nd |
| DDDD / DDD | day of year | 002 / 2 |
| dddd / ddd / dd / d | weekday | Tuesday / Tue / Tu / 2 |
| HH / H, hh / h, kk / k | hour (0-23, 1-12, 1-24) | 09 / 9 |
| mm / m, ss / s | minute, second | 05 / 5 |
| SSS / SS / S | fractions of a second | 123 |
| A / a | AM/PM | PM / pm |
| Z / ZZ | UTC offset | +01:00 / +0100 |

Text in [brackets] is copied as-is; so is a character after a backslash.

Use patterns with a fixed width (YYYYMMDD, YYYY-MM-DD). Names of varying
length such as MMMM make older folders unrecognizable.

## Templates

A template note is copied into each new daily note. Every ` + "`{{...}}`" + `
placeholder is replaced with the current date in the pattern it contains:
` + "`{{date:YYYY-MM-DD}}`" + ` or ` + "`{{HH:mm}}`" + `. Write the full pattern; ` + "`{{date}}`" + ` alone is read as a pattern.
`
