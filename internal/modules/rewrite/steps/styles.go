package steps

import "github.com/yungbote/adforge-backend/internal/domain"

const maxMergedStyles = 10

// MergeStyles combines the strategy's style lists into a single ranked list:
// intent-required styles first, then audience preferences, then the platform
// baseline. First occurrence wins on duplicates; the result caps at ten.
func MergeStyles(strategy *domain.PlatformStrategy) []string {
	if strategy == nil {
		return nil
	}

	merged := make([]string, 0, maxMergedStyles)
	seen := map[string]struct{}{}
	appendUnique := func(styles []string) {
		for _, s := range styles {
			if _, dup := seen[s]; dup || s == "" {
				continue
			}
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}

	appendUnique(strategy.IntentRequiredStyles)
	appendUnique(strategy.AudiencePreferredStyles)
	appendUnique(strategy.PreferredStyles)

	if len(merged) > maxMergedStyles {
		merged = merged[:maxMergedStyles]
	}
	return merged
}
