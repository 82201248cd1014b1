package processor

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/data443/doctagger/pkg/common"
	"github.com/data443/doctagger/pkg/infra/prometheus"
	"github.com/data443/doctagger/pkg/reader"
	"github.com/data443/doctagger/pkg/tagger"
	"github.com/data443/doctagger/pkg/types"
	"github.com/sirupsen/logrus"
)

// ProcessFile classifies one uploaded document against every policy, tags
// it with the winning classification, and moves it into the processed
// directory. Failures are reported through the result's Error field, never
// as a panic or a dropped file.
func (p *Processor) ProcessFile(ctx context.Context, batchID, path string) *types.ProcessingResult {
	filename := filepath.Base(path)
	result := &types.ProcessingResult{
		File:      filename,
		Timestamp: time.Now().UTC(),
		Matches:   []types.PolicyMatch{},
	}

	log := p.logger.WithFields(logrus.Fields{
		"file":     filename,
		"batch_id": batchID,
	})

	text, err := p.extractText(path)
	if err != nil {
		log.WithError(err).Error("text extraction failed")
		return p.fail(result, "failed to read document: "+err.Error())
	}
	result.TextLength = len(text)

	if strings.TrimSpace(text) == "" {
		log.Warn("document contains no extractable text")
		result.Classification = common.UnknownClassification
		result.Error = "no text content could be extracted"
		p.promote(batchID, filename, result, log)
		prometheus.ProcessingErrors.Inc()
		return result
	}

	matches, err := p.classify(ctx, text, log)
	if err != nil {
		return p.fail(result, "classification failed: "+err.Error())
	}
	// Highest confidence first; the top match decides the classification.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	result.Matches = matches
	result.MatchesCount = len(matches)
	result.Classification, result.Confidence = pickClassification(matches)

	if !p.opts.SkipTagging {
		if err := p.tag(path, result.Classification); err != nil {
			log.WithError(err).Warn("tagging failed, document is classified but unmarked")
		} else {
			result.Tagged = true
		}
	}

	p.promote(batchID, filename, result, log)

	prometheus.DocumentsProcessed.WithLabelValues(result.Classification).Inc()
	log.WithFields(logrus.Fields{
		"classification": result.Classification,
		"matches":        result.MatchesCount,
		"tagged":         result.Tagged,
	}).Info("document processed")

	return result
}

func (p *Processor) extractText(path string) (string, error) {
	r, err := reader.ForFile(path)
	if err != nil {
		return "", err
	}
	return r.Read(path)
}

// classify runs the text against every policy. A single failing policy is
// logged and skipped so one flaky policy cannot sink the whole document.
func (p *Processor) classify(ctx context.Context, text string, log *logrus.Entry) ([]types.PolicyMatch, error) {
	policies, err := p.classifier.GetPolicies(ctx)
	if err != nil {
		return nil, err
	}

	var matches []types.PolicyMatch
	for _, policy := range policies {
		resp, err := p.classifier.ClassifyText(ctx, text, policy.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("policy", policy.Name).Warn("policy classification failed, skipping")
			continue
		}
		if resp.TotalMatches == 0 || len(resp.Matches) == 0 {
			continue
		}

		best := resp.Matches[0]
		for _, m := range resp.Matches[1:] {
			if m.Confidence > best.Confidence {
				best = m
			}
		}
		matches = append(matches, types.PolicyMatch{
			PolicyID:     policy.ID,
			PolicyName:   policy.Name,
			MatchID:      best.ID,
			MatchName:    best.Name,
			Confidence:   best.Confidence,
			TotalMatches: resp.TotalMatches,
		})

		if p.opts.UseFirstMatch {
			break
		}
	}
	return matches, nil
}

// pickClassification returns the name of the top matching policy, or
// "safe" when nothing matched. Matches must already be sorted by
// confidence descending.
func pickClassification(matches []types.PolicyMatch) (string, float64) {
	if len(matches) == 0 {
		return common.SafeClassification, 0
	}
	return matches[0].PolicyName, matches[0].Confidence
}

func (p *Processor) tag(path, classification string) error {
	t, err := tagger.ForFile(path)
	if err != nil {
		return err
	}
	return t.Tag(path, p.opts.TagName, classification)
}

func (p *Processor) promote(batchID, filename string, result *types.ProcessingResult, log *logrus.Entry) {
	if _, err := p.store.Promote(batchID, filename); err != nil {
		log.WithError(err).Error("failed to move document to processed directory")
		if result.Error == "" {
			result.Error = "failed to store processed document: " + err.Error()
		}
	}
}

func (p *Processor) fail(result *types.ProcessingResult, message string) *types.ProcessingResult {
	result.Error = message
	prometheus.ProcessingErrors.Inc()
	return result
}
