package handlers

import (
	"reflect"
	"testing"
)

var testTiers = TierRoles{
	Subscriber:        "Subscriber",
	Follower:          "Followers",
	Verified:          "Inner Circle",
	SubscriberKeyword: "youtube",
	FollowerKeyword:   "tiktok",
}

func TestDecideGrants(t *testing.T) {
	tests := []struct {
		name        string
		attachments int
		content     string
		held        map[string]bool
		want        []string
	}{
		{
			name:        "two attachments grant both tiers and verified",
			attachments: 2,
			want:        []string{"Subscriber", "Followers", "Inner Circle"},
		},
		{
			name:        "youtube keyword grants subscriber",
			attachments: 1,
			content:     "here is my YouTube proof",
			want:        []string{"Subscriber"},
		},
		{
			name:        "tiktok keyword grants follower",
			attachments: 1,
			content:     "tiktok screenshot",
			want:        []string{"Followers"},
		},
		{
			name:        "both keywords grant both and verified",
			attachments: 1,
			content:     "youtube and tiktok",
			want:        []string{"Subscriber", "Followers", "Inner Circle"},
		},
		{
			name:        "no keyword defaults to subscriber",
			attachments: 1,
			content:     "proof attached",
			want:        []string{"Subscriber"},
		},
		{
			name:        "no keyword with subscriber held defaults to follower",
			attachments: 1,
			content:     "proof attached",
			held:        map[string]bool{"Subscriber": true},
			want:        []string{"Followers", "Inner Circle"},
		},
		{
			name:        "keyword tier already held grants nothing new",
			attachments: 1,
			content:     "youtube",
			held:        map[string]bool{"Subscriber": true},
			want:        nil,
		},
		{
			name:        "second tier completes the set",
			attachments: 1,
			content:     "tiktok",
			held:        map[string]bool{"Subscriber": true},
			want:        []string{"Followers", "Inner Circle"},
		},
		{
			name:        "everything already held",
			attachments: 2,
			held:        map[string]bool{"Subscriber": true, "Followers": true, "Inner Circle": true},
			want:        nil,
		},
		{
			name:        "both tiers held but verified missing",
			attachments: 1,
			content:     "proof",
			held:        map[string]bool{"Subscriber": true, "Followers": true},
			want:        []string{"Inner Circle"},
		},
		{
			name:        "held role with guild casing is not re-granted",
			attachments: 1,
			content:     "proof attached",
			held:        map[string]bool{"subscriber": true},
			want:        []string{"Followers", "Inner Circle"},
		},
		{
			name:        "keyword tier held with different casing grants nothing new",
			attachments: 1,
			content:     "youtube",
			held:        map[string]bool{"SUBSCRIBER": true},
			want:        nil,
		},
		{
			name:        "everything held with mixed casing",
			attachments: 2,
			held:        map[string]bool{"subscriber": true, "FOLLOWERS": true, "inner circle": true},
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			held := tt.held
			if held == nil {
				held = map[string]bool{}
			}
			got := DecideGrants(tt.attachments, tt.content, held, testTiers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecideGrants() = %v, want %v", got, tt.want)
			}
		})
	}
}
