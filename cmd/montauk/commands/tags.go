package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/zerr"
)

func addTagFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("tag", "t", nil, "Tag value as key=value (repeatable)")
}

// parseTags turns key=value pairs into a tag map. Later pairs win.
func parseTags(pairs []string) (map[string]string, error) {
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTag, "cannot parse tag"), "tag", pair)
		}
		tags[key] = value
	}
	return tags, nil
}

func tagsFrom(cmd *cobra.Command) (map[string]string, error) {
	pairs, err := cmd.Flags().GetStringArray("tag")
	if err != nil {
		return nil, err
	}
	return parseTags(pairs)
}
