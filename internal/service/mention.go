package service

import (
	"context"
	"fmt"
	"regexp"
)

// mentionPattern matches @ followed by one or more word characters.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// UserDirectory resolves usernames to user identities. Resolution is exact
// match only; a name that resolves to nothing reports ok=false.
type UserDirectory interface {
	ResolveUsername(ctx context.Context, username string) (userID string, ok bool, err error)
}

// MentionResolver extracts @username tokens from free text and resolves
// them against the user directory.
type MentionResolver struct {
	directory UserDirectory
}

// NewMentionResolver creates a new MentionResolver.
func NewMentionResolver(directory UserDirectory) *MentionResolver {
	return &MentionResolver{directory: directory}
}

// Resolve returns the resolved user IDs mentioned in text, de-duplicated in
// order of first appearance. Tokens that resolve to nothing are dropped
// silently, and the author is excluded even when self-mentioned.
func (r *MentionResolver) Resolve(ctx context.Context, authorID, text string) ([]string, error) {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seenNames := make(map[string]bool, len(matches))
	seenIDs := make(map[string]bool, len(matches))
	var resolved []string

	for _, match := range matches {
		username := match[1]
		if seenNames[username] {
			continue
		}
		seenNames[username] = true

		userID, ok, err := r.directory.ResolveUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("resolve username %q: %w", username, err)
		}
		if !ok || userID == authorID || seenIDs[userID] {
			continue
		}
		seenIDs[userID] = true
		resolved = append(resolved, userID)
	}

	return resolved, nil
}
