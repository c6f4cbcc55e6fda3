package cli

import "text/template"

const shiftTemplate = `
=== Shift {{.Date}} ===

ID:      {{.ID}}
Kind:    {{.Kind}}
Updated: {{.UpdatedAt.Format "2006-01-02 15:04:05"}}
{{- if .OriginClientID }}
Origin:  {{.OriginClientID}}
{{- end}}
{{- if .Notes }}

Notes:
---
{{.Notes}}
---
{{- end}}
`

const summaryTemplate = `
✓ Synchronization completed
{{- if .FromBackup }} (remote unavailable, local copy shown)
{{- end}}

Synced:          {{.Synced}}
Conflicts:       {{.Conflicts}}
Auto-resolved:   {{.AutoResolved}}
Manual required: {{.ManualRequired}}
{{- if .Deduplicated }}
Deduplicated:    {{.Deduplicated}}
{{- end}}
`

const statsTemplate = `
=== Sync Statistics ===

State:             {{.State}}
Last sync:         {{if .LastSyncTime.IsZero}}never{{else}}{{.LastSyncTime.Format "2006-01-02 15:04:05"}}{{end}}
Local records:     {{.LocalCount}}
Remote records:    {{.RemoteCount}}
Conflicts pending: {{.ConflictsPending}}
Queue pending:     {{.QueuePending}}
Dead letters:      {{.DeadLetters}}
`

const conflictTemplate = `{{.Index}}. {{.Kind}} for {{.RecordID}}
{{- if .DeletedSide }} (deleted on {{.DeletedSide}} side){{end}}
{{- with .LocalRecord }}
   local:  {{.Kind}} updated {{.UpdatedAt.Format "2006-01-02 15:04:05"}} notes: {{printf "%q" .Notes}}
{{- end}}
{{- with .RemoteRecord }}
   remote: {{.Kind}} updated {{.UpdatedAt.Format "2006-01-02 15:04:05"}} notes: {{printf "%q" .Notes}}
{{- end}}
`

var (
	shiftTmpl    = template.Must(template.New("shift").Parse(shiftTemplate))
	summaryTmpl  = template.Must(template.New("summary").Parse(summaryTemplate))
	statsTmpl    = template.Must(template.New("stats").Parse(statsTemplate))
	conflictTmpl = template.Must(template.New("conflict").Parse(conflictTemplate))
)
