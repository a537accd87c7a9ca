package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/domain/retry"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
	"github.com/janhq/ai-gateway/pkg/telemetry"
)

// ImageSize is the closed set of accepted output sizes.
type ImageSize string

const (
	ImageSize256      ImageSize = "256x256"
	ImageSize512      ImageSize = "512x512"
	ImageSize1024     ImageSize = "1024x1024"
	ImageSizeWide     ImageSize = "1792x1024"
	ImageSizePortrait ImageSize = "1024x1792"

	DefaultImageSize = ImageSize1024
)

func ImageSizes() []ImageSize {
	return []ImageSize{ImageSize256, ImageSize512, ImageSize1024, ImageSizeWide, ImageSizePortrait}
}

// ParseImageSize accepts an empty value as the default size.
func ParseImageSize(raw string) (ImageSize, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultImageSize, true
	}
	for _, s := range ImageSizes() {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

type ImageRequest struct {
	Prompt   string
	Size     string
	Provider string
}

// ImageResult holds the generated image as a data URL.
type ImageResult struct {
	Image    string
	MimeType string
	Provider provider.Type
}

type ImageService struct {
	resolver        Resolver[provider.ImageClient]
	maxPromptLength int
	policy          retry.Policy
	recorder        Recorder
	sanitizer       *telemetry.Sanitizer
	log             zerolog.Logger
}

func NewImageService(resolver Resolver[provider.ImageClient], maxPromptLength int, policy retry.Policy, recorder Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *ImageService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelNone, "")
	}
	return &ImageService{
		resolver:        resolver,
		maxPromptLength: maxPromptLength,
		policy:          policy,
		recorder:        recorder,
		sanitizer:       sanitizer,
		log:             log.With().Str("component", "image").Logger(),
	}
}

// Validate rejects a malformed request before any provider is contacted.
func (s *ImageService) Validate(ctx context.Context, req ImageRequest) (ImageSize, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", platformerrors.NewValidationError(ctx, "prompt", "prompt is empty", "")
	}
	if s.maxPromptLength > 0 && utf8.RuneCountInString(req.Prompt) > s.maxPromptLength {
		return "", platformerrors.NewValidationError(ctx, "prompt",
			fmt.Sprintf("prompt exceeds %d characters", s.maxPromptLength), "")
	}
	size, ok := ParseImageSize(req.Size)
	if !ok {
		return "", platformerrors.NewValidationError(ctx, "size", "unsupported image size", "")
	}
	return size, nil
}

// Generate validates req, resolves a provider and returns the image.
func (s *ImageService) Generate(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	size, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	handle, err := s.resolver.ResolveClient(ctx, req.Provider)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("provider", string(handle.Type)).
		Str("size", string(size)).
		Str("prompt_preview", s.sanitizer.Preview(req.Prompt, 64)).
		Msg("generating image")

	out, err := call(ctx, handle, s.policy, s.recorder, func(ctx context.Context, client provider.ImageClient) (*provider.ImageResult, error) {
		return client.GenerateImage(ctx, provider.ImageRequest{Prompt: req.Prompt, Size: string(size)})
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate image")
	}
	if out == nil || len(out.Data) == 0 {
		return nil, platformerrors.NewProviderError(ctx, 0, "provider returned no image data", nil)
	}

	mime := out.MimeType
	if mime == "" {
		mime = mimetype.Detect(out.Data).String()
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, platformerrors.NewProviderError(ctx, 0, "provider returned non-image content: "+mime, nil)
	}

	return &ImageResult{
		Image:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(out.Data),
		MimeType: mime,
		Provider: handle.Type,
	}, nil
}
