package presenter

import "github.com/pixil98/go-mudcore/internal/events"

// Key names the template for one event and audience, such as "say.observer".
func Key(eventName string, audience events.Audience) string {
	return eventName + "." + audience.String()
}

var defaultTemplates = map[string]string{
	"system.actor": `{{ .Event.Text }}`,

	"say.actor":    `You say, "{{ .Event.Message }}"`,
	"say.observer": `{{ .Event.Speaker.Name }} says, "{{ .Event.Message }}"`,

	"emote.actor":    `{{ .Event.Actor.Name }} {{ .Event.Action }}`,
	"emote.observer": `{{ .Event.Actor.Name }} {{ .Event.Action }}`,

	"whisper.actor": `{{ if .Is .Event.From -}}
You whisper to {{ .Event.To.Name }}, "{{ .Event.Message }}"
{{- else -}}
{{ .Event.From.Name }} whispers to you, "{{ .Event.Message }}"
{{- end }}`,

	"channel.actor":    `[{{ upper .Event.Channel }}] You: {{ .Event.Message }}`,
	"channel.observer": `[{{ upper .Event.Channel }}] {{ .Event.Speaker.Name }}: {{ .Event.Message }}`,

	"mute.actor": `{{ if .Event.Muted -}}
You will no longer hear the {{ .Event.Channel }} channel.
{{- else -}}
You can hear the {{ .Event.Channel }} channel again.
{{- end }}`,

	"help.actor": `Available commands:
{{- range .Event.Topics }}
  {{ printf "%-28s" (join ", " .Verbs) }} {{ .Description }}
{{- end }}`,

	"room.actor": `{{ .Event.Room.Name }}
{{ .Event.Room.Description }}
{{- with exits .Event.Room }}
Exits: {{ join ", " . }}
{{- else }}
There are no obvious exits.
{{- end }}
{{- with itemNames .Event.Room.Items }}
You see {{ join ", " . }} here.
{{- end }}
{{- with $.Others .Event.Room.Occupants }}
{{ join ", " . }} {{ if eq (len .) 1 }}is{{ else }}are{{ end }} here.
{{- end }}`,

	"examine.actor": `{{ if .Event.Self -}}
You look yourself over. You look the same as ever.
{{- else if .Event.Description -}}
{{ capitalize .Event.Description }}
{{- else -}}
You see nothing special about {{ .Event.Target }}.
{{- end }}
{{- if .Event.Closeable }} It is {{ if .Event.State.Locked }}closed and locked{{ else if .Event.State.Closed }}closed{{ else }}open{{ end }}.{{ end }}`,
	"examine.observer": `{{ .Event.Actor.Name }} looks you over.`,

	"item_taken.actor":    `You take the {{ .Event.Item.Name }}.`,
	"item_taken.observer": `{{ .Event.Actor.Name }} takes the {{ .Event.Item.Name }}.`,

	"item_dropped.actor":    `You drop the {{ .Event.Item.Name }}.`,
	"item_dropped.observer": `{{ .Event.Actor.Name }} drops the {{ .Event.Item.Name }}.`,

	"item_given.actor": `{{ if .Is .Event.From -}}
You give the {{ .Event.Item.Name }} to {{ .Event.To.Name }}.
{{- else -}}
{{ .Event.From.Name }} gives you the {{ .Event.Item.Name }}.
{{- end }}`,
	"item_given.observer": `{{ .Event.From.Name }} gives the {{ .Event.Item.Name }} to {{ .Event.To.Name }}.`,

	"inventory.actor": `{{ with .Event.Items -}}
You are carrying:
{{- range . }}
  {{ .Name }}
{{- end }}
{{- else -}}
You aren't carrying anything.
{{- end }}`,

	"closure.actor":    `You {{ .Event.Action }} the {{ .Event.Name }}.`,
	"closure.observer": `{{ .Event.Actor.Name }} {{ .Event.Action }}s the {{ .Event.Name }}.`,

	"departed.observer": `{{ .Event.Actor.Name }} leaves {{ .Event.Direction }}.`,
	"arrived.observer":  `{{ .Event.Actor.Name }} arrives.`,

	"who.actor": `Players online ({{ len .Event.Actors }}):
{{- range .Event.Actors }}
  {{ .Name }}
{{- end }}`,

	"kick.actor": `You kick {{ .Event.Target.Name }} out.`,

	"disconnect.actor": `{{ if .Event.Kicked -}}
You have been kicked out by {{ .Event.By.Name }}.
{{- else -}}
Goodbye.
{{- end }}`,

	"spawned.observer":     `{{ .Event.Actor.Name }} has entered the world.`,
	"despawned.observer":   `{{ .Event.Actor.Name }} has left the world.`,
	"linkdead.observer":    `{{ .Event.Actor.Name }} has lost their link.`,
	"reconnected.observer": `{{ .Event.Actor.Name }} has reconnected.`,
}
