package service

import "testing"

func TestCalculateLevelScore(t *testing.T) {
	tests := []struct {
		name        string
		levelOrder  int
		answers     map[string]string
		hasArtifact bool
		want        int
	}{
		{
			name:       "base score for early levels",
			levelOrder: 1,
			answers:    map[string]string{"empathy_notes": "short"},
			want:       10,
		},
		{
			name:       "ideate bonus from long answer",
			levelOrder: 3,
			answers: map[string]string{
				"ideas_list": "We could build a peer mentoring circle where senior students pair with juniors to practice interviews and reflect together every week.",
			},
			want: 20,
		},
		{
			name:       "ideate bonus from multiple ideas",
			levelOrder: 3,
			answers:    map[string]string{"ideas_list": "mentoring circle; practice wall"},
			want:       20,
		},
		{
			name:       "single short idea gets no bonus",
			levelOrder: 3,
			answers:    map[string]string{"ideas_list": "mentoring circle"},
			want:       10,
		},
		{
			name:       "empty ideate answer",
			levelOrder: 3,
			answers:    map[string]string{},
			want:       10,
		},
		{
			name:       "prototype bonus from link",
			levelOrder: 4,
			answers:    map[string]string{"prototype_link": "https://example.com/mock"},
			want:       20,
		},
		{
			name:        "prototype bonus from artifact",
			levelOrder:  4,
			answers:     map[string]string{},
			hasArtifact: true,
			want:        20,
		},
		{
			name:       "prototype without evidence",
			levelOrder: 4,
			answers:    map[string]string{},
			want:       10,
		},
		{
			name:       "test bonus from high rating",
			levelOrder: 5,
			answers:    map[string]string{"peer_rating": "4"},
			want:       20,
		},
		{
			name:       "test low rating",
			levelOrder: 5,
			answers:    map[string]string{"peer_rating": "3"},
			want:       10,
		},
		{
			name:       "test unparseable rating",
			levelOrder: 5,
			answers:    map[string]string{"peer_rating": "great"},
			want:       10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevelScore(tt.levelOrder, tt.answers, tt.hasArtifact); got != tt.want {
				t.Errorf("CalculateLevelScore(%d) = %d, want %d", tt.levelOrder, got, tt.want)
			}
		})
	}
}

func TestIdeateBonusNewlineSeparated(t *testing.T) {
	answers := map[string]string{"ideas_list": "idea one\nidea two\nidea three"}
	if got := CalculateLevelScore(levelIdeate, answers, false); got != 20 {
		t.Errorf("newline-separated ideas = %d, want 20", got)
	}
}
