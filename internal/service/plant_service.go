package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/vision"
)

// dataURIPrefix matches the "data:image/<type>;base64," header browsers put
// in front of canvas and FileReader output.
var dataURIPrefix = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,`)

type PlantService struct {
	model  vision.Model
	logger *slog.Logger
}

func NewPlantService(model vision.Model, logger *slog.Logger) *PlantService {
	return &PlantService{
		model:  model,
		logger: logger,
	}
}

// Identify decodes a base64 image, optionally carrying a data-URI prefix, and
// identifies the plant in it. Every failure is an *IdentifyError.
func (s *PlantService) Identify(ctx context.Context, imageBase64 string) (*domain.PlantInfo, error) {
	data, mimeType, err := DecodeImage(imageBase64)
	if err != nil {
		return nil, asIdentifyError(err)
	}
	return s.IdentifyImage(ctx, data, mimeType)
}

// IdentifyImage sends raw image bytes to the model once and extracts the
// plant record from its answer. A NOT_A_PLANT answer wins over any JSON in
// the same response.
func (s *PlantService) IdentifyImage(ctx context.Context, data []byte, mimeType string) (*domain.PlantInfo, error) {
	s.logger.Info("identification started", "mime_type", mimeType, "bytes", len(data))

	text, err := s.model.GenerateFromImage(ctx, vision.IdentifyPrompt, data, mimeType)
	if err != nil {
		s.logger.Error("identification model call failed", "error", err)
		return nil, asIdentifyError(fmt.Errorf("failed to identify image: %w", err))
	}

	if strings.Contains(text, vision.NotAPlantSentinel) {
		s.logger.Info("identification complete", "result", KindNotAPlant.String())
		return nil, ErrNotAPlant
	}

	info, err := vision.ExtractPlantInfo(text)
	if err != nil {
		s.logger.Warn("identification response unusable", "error", err, "response_bytes", len(text))
		return nil, &IdentifyError{Kind: KindUnidentifiable, Message: msgUnidentifiable, Err: err}
	}

	s.logger.Info("identification complete", "plant", info.Name, "scientific_name", info.ScientificName)
	return info, nil
}

// CareGuide returns care instructions for plantName. It never fails: any
// model or parse error is logged and the default record is returned.
func (s *PlantService) CareGuide(ctx context.Context, plantName string) domain.CareInstructions {
	text, err := s.model.GenerateText(ctx, vision.CarePrompt(plantName))
	if err != nil {
		s.logger.Warn("care guide model call failed, using defaults", "plant", plantName, "error", err)
		return domain.DefaultCareInstructions()
	}

	care, err := vision.ParseCareInstructions(text)
	if err != nil {
		s.logger.Warn("care guide parse failed, using defaults", "plant", plantName, "error", err)
		return domain.DefaultCareInstructions()
	}
	return *care
}

// BuyLinks returns retailer search links for plantName.
func BuyLinks(plantName string) []domain.BuyLink {
	name := strings.TrimSpace(plantName)
	return []domain.BuyLink{
		{Store: "Amazon", URL: "https://www.amazon.com/s?k=" + url.QueryEscape(name+" plant")},
		{Store: "Ugaoo", URL: "https://www.ugaoo.com/search?q=" + url.QueryEscape(name)},
	}
}

// DecodeImage strips an optional data-URI prefix and decodes the payload.
// The MIME type comes from the prefix when present and is sniffed otherwise.
func DecodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	var mimeType string
	if m := dataURIPrefix.FindStringSubmatch(encoded); m != nil {
		mimeType = strings.ToLower(m[1])
		encoded = encoded[len(m[0]):]
	}
	if encoded == "" {
		return nil, "", fmt.Errorf("empty image")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
		if !strings.HasPrefix(mimeType, "image/") {
			mimeType = "image/jpeg"
		}
	}
	return data, mimeType, nil
}
