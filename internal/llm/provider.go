package llm

import "context"

// Provider defines the interface for chat providers. The credential is
// passed per call because every browser session brings its own key.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, apiKey string, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// SystemPrompt frames every chat question sent on behalf of the catalog.
const SystemPrompt = `Ты — помощник библиотеки электронных компонентов. Отвечай на русском языке, ` +
	`кратко и по делу. Объясняй устройство и применение транзисторов, диодов и электронных ламп, ` +
	`их параметры (Imax, Uce_max, Ptot) и вольт-амперные характеристики. ` +
	`Используй Markdown: заголовки, списки, **жирный** текст и ` + "`код`" + ` для обозначений.`

// Ask sends SystemPrompt followed by the user's question.
func Ask(ctx context.Context, p Provider, apiKey, question string) (*CompletionResponse, error) {
	return p.Complete(ctx, apiKey, CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: SystemPrompt},
			{Role: RoleUser, Content: question},
		},
	})
}
