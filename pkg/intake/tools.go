package intake

import (
	"context"

	"github.com/servicemed/go-intake/pkg/voice"
)

// CreateEventTool is the name of the assistant's only tool.
const CreateEventTool = "create_event"

const (
	createEventDescription = "Utilisez cette fonction pour enregistrer le rendez-vous médical du médecin dans le calendrier."
	dateParamDescription   = "La date et l'heure du rendez-vous. L'utilisateur peut les fournir dans n'importe quel format, mais convertissez-les au format YYYY-MM-DDTHH:MM:SS pour appeler cette fonction."
)

// Tools returns the tool declarations surfaced to the model: exactly one,
// create_event, with a single required string parameter "date".
func Tools(ctx context.Context, b *Booker) []voice.Tool {
	return []voice.Tool{
		{
			Name:        CreateEventTool,
			Description: createEventDescription,
			Parameters: map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": dateParamDescription,
				},
			},
			Required: []string{"date"},
			Handler: func(args map[string]any) (string, error) {
				return b.Handle(ctx, args)
			},
		},
	}
}
