package provider

// Type identifies a provider variant. The set is closed; adding a provider
// means adding a Type, a Definition below and a builder entry.
type Type string

const (
	TypeOpenAI      Type = "openai"
	TypeAnthropic   Type = "anthropic"
	TypeAzureOpenAI Type = "azure_openai"
	TypeOllama      Type = "ollama"
	TypeStability   Type = "stability"
	TypeElevenLabs  Type = "elevenlabs"
)

// Configuration keys read from the process environment.
const (
	KeyOpenAIAPIKey          = "OPENAI_API_KEY"
	KeyAnthropicAPIKey       = "ANTHROPIC_API_KEY"
	KeyAzureOpenAIAPIKey     = "AZURE_OPENAI_API_KEY"
	KeyAzureOpenAIEndpoint   = "AZURE_OPENAI_ENDPOINT"
	KeyAzureOpenAIDeployment = "AZURE_OPENAI_DEPLOYMENT"
	KeyOllamaBaseURL         = "OLLAMA_BASE_URL"
	KeyStabilityAPIKey       = "STABILITY_API_KEY"
	KeyElevenLabsAPIKey      = "ELEVENLABS_API_KEY"
)

// Definition is the static metadata of one provider variant for one capability.
type Definition struct {
	Type         Type
	Capability   Capability
	DisplayName  string
	RequiredKeys []string
}

// DefaultCatalog returns the built-in definitions in registration order.
// Order matters: the first configured entry per capability is the default.
func DefaultCatalog() []Definition {
	return []Definition{
		{Type: TypeOpenAI, Capability: CapabilityChat, DisplayName: "OpenAI", RequiredKeys: []string{KeyOpenAIAPIKey}},
		{Type: TypeAnthropic, Capability: CapabilityChat, DisplayName: "Anthropic", RequiredKeys: []string{KeyAnthropicAPIKey}},
		{Type: TypeAzureOpenAI, Capability: CapabilityChat, DisplayName: "Azure OpenAI", RequiredKeys: []string{KeyAzureOpenAIAPIKey, KeyAzureOpenAIEndpoint, KeyAzureOpenAIDeployment}},
		{Type: TypeOllama, Capability: CapabilityChat, DisplayName: "Ollama", RequiredKeys: []string{KeyOllamaBaseURL}},

		{Type: TypeOpenAI, Capability: CapabilityImage, DisplayName: "OpenAI Images", RequiredKeys: []string{KeyOpenAIAPIKey}},
		{Type: TypeStability, Capability: CapabilityImage, DisplayName: "Stability AI", RequiredKeys: []string{KeyStabilityAPIKey}},

		{Type: TypeOpenAI, Capability: CapabilitySpeech, DisplayName: "OpenAI Speech", RequiredKeys: []string{KeyOpenAIAPIKey}},
		{Type: TypeElevenLabs, Capability: CapabilitySpeech, DisplayName: "ElevenLabs", RequiredKeys: []string{KeyElevenLabsAPIKey}},
	}
}
