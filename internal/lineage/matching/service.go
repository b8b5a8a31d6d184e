package matching

import (
	"context"

	"github.com/google/uuid"

	"lineage-workers/internal/common/logger"
	"lineage-workers/internal/lineage/tree"
)

// Service holds the process-wide base configuration. It keeps no state
// between calls.
type Service struct {
	config Config
	logger logger.Logger
	newID  func() string
}

func NewService(cfg Config, log logger.Logger) *Service {
	return &Service{
		config: cfg,
		logger: log,
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *Service) Config() Config {
	return s.config
}

// Match applies override on top of the base configuration and runs the
// matcher against members.
func (s *Service) Match(ctx context.Context, input NameInput, members []tree.FamilyMember, override *Override) (*MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := s.config.Apply(override)
	result, err := Match(input, members, cfg)
	if err != nil {
		return nil, err
	}
	result.RequestID = s.newID()

	for _, sk := range result.Skipped {
		s.logger.Warn("candidate father skipped", map[string]interface{}{
			"requestId": result.RequestID,
			"fatherId":  sk.FatherID,
			"reason":    sk.Reason,
		})
	}

	fields := map[string]interface{}{
		"requestId":       result.RequestID,
		"population":      len(members),
		"matchCount":      result.MatchCount,
		"exact":           len(result.ExactMatches),
		"high":            len(result.HighMatches),
		"medium":          len(result.MediumMatches),
		"low":             len(result.LowMatches),
		"suggestedAction": result.SuggestedAction,
	}
	if result.BestMatch != nil {
		fields["bestFatherId"] = result.BestMatch.FatherID
		fields["bestScore"] = result.BestMatch.Score
	}
	s.logger.Info("ancestor chain matched", fields)

	return result, nil
}
