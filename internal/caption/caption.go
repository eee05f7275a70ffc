package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZacxDev/video-captioner/pkg/types"
	"github.com/pkg/errors"
)

var (
	// ErrNoCategories is returned when there is nothing to describe
	ErrNoCategories = errors.New("no transaction categories")
	// ErrMissingAPIKey is returned when a provider has no credentials
	ErrMissingAPIKey = errors.New("missing API key")
)

const systemPrompt = "You are a helpful assistant."

const promptTemplate = `Anda adalah pakar pemasaran yang membantu klien di industri keuangan.
Berdasarkan pola transaksi yang diberikan, buatlah ringkasan yang ramah dan menarik tentang apa transaksi yang sering dia lakukan yang ditujukan langsung kepada pelanggan.
Mulailah respons dengan "Haloo," dan jelaskan kebiasaan transaksi mereka dengan nada percakapan yang relevan pakai sapaan 'kamu'.
Tulis hingga 2 kalimat pendek agar menarik dan mudah dipahami.

Data input: %s`

// Generator writes a short marketing caption from a customer's transaction categories
type Generator interface {
	Generate(ctx context.Context, categories []string) (string, error)
}

// BuildPrompt fills the marketing prompt with categories
func BuildPrompt(categories []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(categories, ", "))
}

// New returns the generator for provider. An empty model selects the provider default.
func New(provider types.CaptionProvider, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, errors.Wrapf(ErrMissingAPIKey, "provider %s", provider)
	}

	switch provider {
	case types.CaptionProviderCohere, "":
		return NewCohere(apiKey, model), nil
	case types.CaptionProviderGroq:
		return NewGroq(apiKey, model), nil
	default:
		return nil, errors.Errorf("unsupported caption provider: %s", provider)
	}
}

func checkCategories(categories []string) error {
	for _, c := range categories {
		if strings.TrimSpace(c) != "" {
			return nil
		}
	}
	return ErrNoCategories
}

// clean trims whitespace and any quotes the model wrapped the caption in
func clean(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}
