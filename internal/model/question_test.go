package model

import "testing"

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{
			name: "valid categorize",
			q:    Question{ID: "q1", Kind: KindCategorize, Categories: []string{"Fruit", "Veg"}, Items: []string{"Apple", "Carrot"}},
		},
		{
			name:    "categorize without categories",
			q:       Question{ID: "q1", Kind: KindCategorize, Items: []string{"Apple"}},
			wantErr: true,
		},
		{
			name:    "categorize without items",
			q:       Question{ID: "q1", Kind: KindCategorize, Categories: []string{"Fruit"}},
			wantErr: true,
		},
		{
			name: "valid cloze",
			q:    Question{ID: "q2", Kind: KindCloze, Text: "The capital of [BLANK] is [BLANK]."},
		},
		{
			name:    "cloze without text",
			q:       Question{ID: "q2", Kind: KindCloze},
			wantErr: true,
		},
		{
			name: "valid comprehension",
			q: Question{ID: "q3", Kind: KindComprehension, Passage: "A passage.",
				SubQuestions: []SubQuestion{{ID: "q3a", Prompt: "Why?"}}},
		},
		{
			name:    "comprehension without sub-questions",
			q:       Question{ID: "q3", Kind: KindComprehension, Passage: "A passage."},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			q:       Question{ID: "q4", Kind: "ranking", Title: "Rank these"},
			wantErr: true,
		},
		{
			name:    "empty kind",
			q:       Question{ID: "q5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBlankCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"The capital of [BLANK] is [BLANK].", 2},
		{"No blanks here.", 0},
		{"[BLANK]", 1},
		{"[BLANK][BLANK][BLANK]", 3},
		{"[blank] is not a placeholder", 0},
	}

	for _, tt := range tests {
		q := Question{Kind: KindCloze, Text: tt.text}
		if got := q.BlankCount(); got != tt.want {
			t.Errorf("BlankCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestResolveAnswerTarget(t *testing.T) {
	form := Form{Questions: []Question{
		{ID: "q1", Kind: KindCloze, Text: "[BLANK]"},
		{ID: "q2", Kind: KindComprehension, Passage: "p", SubQuestions: []SubQuestion{
			{ID: "q2a", Prompt: "first"},
			{ID: "q2b", Prompt: "second"},
		}},
	}}

	q, sub := form.ResolveAnswerTarget("q1")
	if q == nil || q.ID != "q1" || sub != nil {
		t.Errorf("expected top-level match for q1, got q=%v sub=%v", q, sub)
	}

	q, sub = form.ResolveAnswerTarget("q2b")
	if q == nil || q.ID != "q2" {
		t.Fatalf("expected parent q2 for sub-question q2b, got %v", q)
	}
	if sub == nil || sub.ID != "q2b" {
		t.Errorf("expected sub-question q2b, got %v", sub)
	}

	if q, sub := form.ResolveAnswerTarget("missing"); q != nil || sub != nil {
		t.Errorf("expected no match for unknown id, got q=%v sub=%v", q, sub)
	}
}
