package types

type CaptionProvider string

const (
	CaptionProviderCohere CaptionProvider = "cohere"
	CaptionProviderGroq   CaptionProvider = "groq"
)
