// Package cmdutil provides the flags shared by the lucro commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro/internal/config"
	"github.com/agentstation/lucro/internal/matcher"
	"github.com/agentstation/lucro/internal/resolver"
	"github.com/agentstation/lucro/pkg/errors"
)

// SearchFlags holds the resolver knobs of a command.
type SearchFlags struct {
	Threshold int
	Limit     int
	Tier      string
	Category  string
	IDs       []string
}

// AddSearchFlags adds resolver flags to a command. A zero defaultLimit
// falls back to the configured limit.
func AddSearchFlags(cmd *cobra.Command, defaultLimit int) *SearchFlags {
	flags := &SearchFlags{}

	cmd.Flags().IntVarP(&flags.Threshold, "threshold", "t", 0,
		"Minimum similarity (0-100) a match must exceed (default from config)")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", defaultLimit,
		"Maximum number of matches")
	cmd.Flags().StringVar(&flags.Tier, "tier", "",
		"Only items of this tier, e.g. T4")
	cmd.Flags().StringVar(&flags.Category, "category", "",
		"Only items of this category, e.g. weapon")
	cmd.Flags().StringSliceVar(&flags.IDs, "id", nil,
		"Only item ids matching these glob or regex patterns, e.g. 'T4_*'")

	return flags
}

// Options converts the flags into search options. Flags the user did not
// set take their value from cfg.
func (f *SearchFlags) Options(cmd *cobra.Command, cfg *config.Config) ([]resolver.SearchOption, error) {
	threshold := cfg.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = f.Threshold
	}
	limit := f.Limit
	if !cmd.Flags().Changed("limit") && limit == 0 {
		limit = cfg.Limit
	}
	if threshold < 0 || threshold > 100 {
		return nil, errors.NewValidationError("threshold", threshold, "must be between 0 and 100")
	}

	opts := []resolver.SearchOption{
		resolver.WithThreshold(threshold),
		resolver.WithLimit(limit),
		resolver.WithTier(f.Tier),
		resolver.WithCategory(f.Category),
	}
	if len(f.IDs) > 0 {
		ids, err := matcher.NewAny(f.IDs)
		if err != nil {
			return nil, errors.NewValidationError("id", strings.Join(f.IDs, ","), err.Error())
		}
		opts = append(opts, resolver.WithIDFilter(ids))
	}
	return opts, nil
}

// Query joins positional arguments into a search query.
func Query(args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return "", errors.NewValidationError("query", query, "cannot be empty")
	}
	return query, nil
}

// CityFlags holds the market cities of a command.
type CityFlags struct {
	Cities []string
}

// AddCityFlags adds the --city flag to a command.
func AddCityFlags(cmd *cobra.Command) *CityFlags {
	flags := &CityFlags{}
	cmd.Flags().StringSliceVarP(&flags.Cities, "city", "c", nil,
		"Market cities (default from config, else the royal cities)")
	return flags
}

// Resolve returns the cities to query, preferring flags over cfg.
func (f *CityFlags) Resolve(cfg *config.Config) []string {
	if len(f.Cities) > 0 {
		return trimAll(f.Cities)
	}
	return trimAll(cfg.Cities)
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
