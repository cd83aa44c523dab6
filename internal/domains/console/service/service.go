package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	addressModel "address-console/internal/domains/address/model"
	addressService "address-console/internal/domains/address/service"
	settingsModel "address-console/internal/domains/settings/model"
	settingsService "address-console/internal/domains/settings/service"
	tagModel "address-console/internal/domains/tag/model"
	tagService "address-console/internal/domains/tag/service"
)

// Bootstrap là state đầu tiên console cần khi operator mở session
type Bootstrap struct {
	Settings  *settingsModel.Settings   `json:"settings"`
	Addresses *addressModel.AddressView `json:"addresses"`
	Tags      *tagModel.TagCategories   `json:"tags,omitempty"`
}

type ServiceInterface interface {
	Bootstrap(ctx context.Context, profile settingsModel.UserProfile) (*Bootstrap, error)
}

type consoleService struct {
	addresses addressService.ServiceInterface
	tags      tagService.ServiceInterface
	settings  settingsService.ServiceInterface
}

func NewConsoleService(
	addresses addressService.ServiceInterface,
	tags tagService.ServiceInterface,
	settings settingsService.ServiceInterface,
) ServiceInterface {
	return &consoleService{addresses: addresses, tags: tags, settings: settings}
}

// Bootstrap đọc settings trước (cần language), sau đó load page đầu
// và tag categories song song. Lỗi tags không làm hỏng bootstrap.
func (s *consoleService) Bootstrap(ctx context.Context, profile settingsModel.UserProfile) (*Bootstrap, error) {
	settings, err := s.settings.Identify(ctx, profile)
	if err != nil {
		return nil, err
	}
	language := settings.Config.Language

	out := &Bootstrap{Settings: settings}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		view, err := s.addresses.Load(gctx, profile.ID, addressModel.ListRequest{Language: language})
		if err != nil {
			return err
		}
		out.Addresses = view
		return nil
	})

	g.Go(func() error {
		tags, err := s.tags.Categories(gctx, profile.ID, language, false)
		if err != nil {
			log.Warn().Err(err).Str("user_id", profile.ID).Str("language", language).
				Msg("bootstrap: tag categories unavailable")
			return nil
		}
		out.Tags = tags
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
