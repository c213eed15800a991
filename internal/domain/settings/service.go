package settings

import (
	"context"
	"strings"

	"makani-studio/internal/domain/i18n"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Place is a reverse-geocoded address.
type Place struct {
	DisplayName string
	City        string
	District    string
	Country     string
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Profile is the admin settings form. Address parts are derived from
// Coordinates and never typed in.
type Profile struct {
	ContactEmail string
	ContactPhone string
	Coordinates  string
	FacebookURL  string
	YoutubeURL   string
	LinkedinURL  string
	TiktokURL    string
	Language     i18n.Language
}

type Service struct {
	store      *Store
	geocoder   Geocoder
	translator i18n.Translator
	log        *zap.Logger
}

func NewService(store *Store, geocoder Geocoder, translator i18n.Translator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, geocoder: geocoder, translator: translator, log: log}
}

func (s *Service) Get(ctx context.Context) (*AppSettings, error) {
	return s.store.Get(ctx)
}

// UpdateProfile resolves the address of the coordinates, translates its
// parts and saves the settings. A failed lookup keeps the coordinates as the
// address line.
func (s *Service) UpdateProfile(ctx context.Context, p Profile) (*AppSettings, error) {
	coords, err := ParseCoordinates(p.Coordinates)
	if err != nil {
		return nil, err
	}
	lang, ok := i18n.ParseLanguage(string(p.Language))
	if !ok {
		lang = i18n.EN
	}

	place := Place{DisplayName: coords.String()}
	if s.geocoder != nil {
		found, err := s.geocoder.Reverse(ctx, coords.Lat, coords.Lng)
		if err != nil {
			s.log.Warn("reverse geocode failed", zap.Float64("lat", coords.Lat), zap.Float64("lng", coords.Lng), zap.Error(err))
		} else {
			if found.DisplayName != "" {
				place.DisplayName = found.DisplayName
			}
			place.City, place.District, place.Country = found.City, found.District, found.Country
		}
	}

	sources := [4]string{place.DisplayName, place.City, place.District, place.Country}
	var texts [4]i18n.LocalizedText
	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			texts[i] = s.translator.TranslateToAll(ctx, src, lang)
			return nil
		})
	}
	_ = g.Wait()

	lat, lng := coords.Lat, coords.Lng
	out := &AppSettings{
		ContactEmail:  strings.TrimSpace(p.ContactEmail),
		ContactPhone:  strings.TrimSpace(p.ContactPhone),
		AddressLine:   texts[0],
		City:          texts[1],
		District:      texts[2],
		Country:       texts[3],
		Latitude:      &lat,
		Longitude:     &lng,
		GoogleMapsURL: coords.MapsURL(),
		FacebookURL:   strings.TrimSpace(p.FacebookURL),
		YoutubeURL:    strings.TrimSpace(p.YoutubeURL),
		LinkedinURL:   strings.TrimSpace(p.LinkedinURL),
		TiktokURL:     strings.TrimSpace(p.TiktokURL),
	}
	if err := s.store.Save(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
