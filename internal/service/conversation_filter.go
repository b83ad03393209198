package service

import (
	"strings"
	"time"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
)

// ListQuery is the raw, all-string listing input as it arrives from the
// query string.
type ListQuery struct {
	Tags        string
	From        string
	To          string
	Keyword     string
	CreatedOnly string
}

// buildFilter translates the raw query into the store-level filter.
// Ownership is always the first predicate.
func buildFilter(userID string, q ListQuery) (repository.ConversationFilter, error) {
	filter := repository.ConversationFilter{
		UserID:      userID,
		Keyword:     strings.TrimSpace(q.Keyword),
		CreatedOnly: q.CreatedOnly == "true",
	}

	if tags := strings.TrimSpace(q.Tags); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !validTag(tag) {
				return repository.ConversationFilter{}, apperr.ValidationFields(map[string]string{
					"tags": "unknown tag: " + tag,
				})
			}
			filter.Tags = append(filter.Tags, tag)
		}
	}

	var err error
	if filter.From, err = parseBound(q.From, false); err != nil {
		return repository.ConversationFilter{}, apperr.ValidationFields(map[string]string{
			"from": "must be an ISO-8601 datetime",
		})
	}
	if filter.To, err = parseBound(q.To, true); err != nil {
		return repository.ConversationFilter{}, apperr.ValidationFields(map[string]string{
			"to": "must be an ISO-8601 datetime",
		})
	}

	return filter, nil
}

// parseBound accepts a full RFC 3339 datetime or a bare date. A bare date
// used as an upper bound means the end of that day.
func parseBound(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func validTag(tag string) bool {
	for _, known := range models.ConversationTags {
		if tag == known {
			return true
		}
	}
	return false
}

// narrowByWindow returns a copy of the conversation whose message list keeps
// only the entries inside [from, to]. The input is never mutated; narrowed
// results live only in the response payload.
func narrowByWindow(conv models.Conversation, from *time.Time, to *time.Time) models.Conversation {
	if from == nil && to == nil {
		return conv
	}

	kept := make([]models.Message, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if from != nil && msg.Timestamp.Before(*from) {
			continue
		}
		if to != nil && msg.Timestamp.After(*to) {
			continue
		}
		kept = append(kept, msg)
	}
	conv.Messages = kept
	return conv
}

// narrowByKeyword keeps only messages whose content contains the keyword,
// case-insensitively.
func narrowByKeyword(conv models.Conversation, keyword string) models.Conversation {
	if keyword == "" {
		return conv
	}

	needle := strings.ToLower(keyword)
	kept := make([]models.Message, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			kept = append(kept, msg)
		}
	}
	conv.Messages = kept
	return conv
}
