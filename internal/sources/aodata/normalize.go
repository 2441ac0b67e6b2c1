package aodata

import (
	"context"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// Normalize converts raw records into catalog items keyed by UniqueName.
//
// Records without a UniqueName are skipped and returned as
// RecordSkippedErrors; the rest of the batch is kept. When a UniqueName
// repeats, the later record wins and the first position is kept. Every
// item gets the same LastUpdated.
func Normalize(ctx context.Context, raw []RawItem, locale string, now utc.Time) (*catalogs.Items, []*errors.RecordSkippedError) {
	logger := logging.FromContext(ctx)
	if locale == "" {
		locale = constants.DefaultLocale
	}

	items := catalogs.NewItems(catalogs.WithItemsCapacity(len(raw)))
	var skipped []*errors.RecordSkippedError

	for i := range raw {
		id := strings.TrimSpace(raw[i].UniqueName)
		if id == "" {
			skip := errors.NewRecordSkippedError(i, "", "missing UniqueName")
			logger.Warn().Err(skip).Int("index", i).Msg("Skipping catalog record")
			skipped = append(skipped, skip)
			continue
		}

		item := normalizeRecord(id, &raw[i], locale, now)
		if _, exists := items.Get(id); exists {
			logger.Debug().Str("item_id", id).Msg("Duplicate catalog record, keeping the later one")
		}
		_ = items.Set(item)
	}

	return items, skipped
}

func normalizeRecord(id string, r *RawItem, locale string, now utc.Time) *catalogs.Item {
	name := localizedName(r.LocalizedNames, locale)
	if name == "" {
		name = id
	}
	return &catalogs.Item{
		ID:          id,
		Name:        name,
		NameEN:      localizedName(r.LocalizedNames, constants.FallbackLocale),
		Tier:        catalogs.FormatTier(r.Tier.Ptr()),
		Category:    nonEmpty(r.ItemType),
		Subcategory: nonEmpty(r.ItemGroup),
		Enchantment: r.EnchantmentLevel.Or(0),
		Quality:     r.Quality.Ptr(),
		ImageURL:    catalogs.ImageURL(id),
		LastUpdated: now,
	}
}

// localizedName looks the locale up exactly, then case-insensitively.
func localizedName(names map[string]string, locale string) string {
	if name, ok := names[locale]; ok {
		return strings.TrimSpace(name)
	}
	for key, name := range names {
		if strings.EqualFold(key, locale) {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
