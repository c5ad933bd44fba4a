package browser

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formswarm/internal/config"
	"github.com/xkilldash9x/formswarm/internal/form"
)

// Factory launches a fresh Driver per submission. It satisfies the
// batch orchestrator's page factory contract.
type Factory struct {
	cfg    config.BrowserConfig
	logger *zap.Logger
}

func NewFactory(cfg config.BrowserConfig, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

func (f *Factory) NewPage(ctx context.Context) (form.Page, error) {
	return NewDriver(ctx, f.cfg, f.logger)
}
