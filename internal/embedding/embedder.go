package embedding

import (
	"fmt"

	"textintel/internal/config"
	"textintel/internal/domain"
	"textintel/internal/embedding/hashing"
	"textintel/internal/embedding/openai"
)

// New builds the embedder selected by cfg.Type producing dim-wide vectors.
func New(cfg config.EmbedderConfig, dim int) (domain.Embedder, error) {
	switch cfg.Type {
	case "", "hashing":
		e, err := hashing.NewEmbedder(dim)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "openai":
		oc := config.OpenAIEmbedderConfig{}
		if cfg.OpenAI != nil {
			oc = *cfg.OpenAI
		}
		c, err := openai.NewClient(openai.Config{
			BaseURL:           oc.BaseURL,
			APIKeyEnv:         oc.APIKeyEnv,
			Model:             oc.Model,
			Timeout:           config.Seconds(oc.TimeoutSecs),
			Dimension:         dim,
			RequestDimensions: oc.RequestDimensions,
			MaxRetries:        oc.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}
