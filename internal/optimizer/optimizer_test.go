package optimizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-pipeline/internal/model"
)

type fakeGenerator struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no response configured")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func sampleDoc() *model.ResumeDocument {
	return &model.ResumeDocument{
		PersonalInfo: model.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
		Experience: []model.Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2020", Bullets: []string{
				"Built a billing system",
				"Reduced costs by 30%",
			}},
		},
		Projects: []model.Project{
			{Name: "Widget", Tech: []string{"Go"}, Bullets: []string{"Shipped v1"}},
		},
	}
}

func testOptions() Options {
	return Options{RequestDelay: time.Millisecond}
}

func TestOptimizeDryReturnsInputUnchanged(t *testing.T) {
	doc := sampleDoc()
	opts := testOptions()
	opts.Dry = true

	res, err := New(nil, opts).Optimize(context.Background(), doc, "any job")
	require.NoError(t, err)

	assert.Equal(t, doc.Experience, res.Document.Experience)
	assert.Equal(t, doc.Projects, res.Document.Projects)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Warnings)
}

func TestOptimizeReplacesOnlyBullets(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"• Built a billing platform in Go\n• Cut infrastructure costs by 30%",
		"• Shipped Widget v1 to production",
	}}

	doc := sampleDoc()
	res, err := New(gen, testOptions()).Optimize(context.Background(), doc, "Go backend role")
	require.NoError(t, err)

	out := res.Document
	assert.Equal(t, []string{
		"Built a billing platform in Go",
		"Cut infrastructure costs by 30%",
	}, out.Experience[0].Bullets)
	assert.Equal(t, []string{"Shipped Widget v1 to production"}, out.Projects[0].Bullets)
	assert.False(t, res.Fallback)

	// Factual fields are untouched.
	assert.Equal(t, "Acme", out.Experience[0].Company)
	assert.Equal(t, "Engineer", out.Experience[0].Role)
	assert.Equal(t, "2020", out.Experience[0].StartDate)
	assert.Equal(t, []string{"Go"}, out.Projects[0].Tech)

	// The input document is never mutated.
	assert.Equal(t, "Built a billing system", doc.Experience[0].Bullets[0])
}

func TestOptimizeServiceErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("quota exceeded")}

	doc := sampleDoc()
	res, err := New(gen, testOptions()).Optimize(context.Background(), doc, "job")
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Len(t, res.Warnings, 2)
	assert.Equal(t, doc.Experience[0].Bullets, res.Document.Experience[0].Bullets)
	assert.Equal(t, doc.Projects[0].Bullets, res.Document.Projects[0].Bullets)
}

func TestOptimizeBulletCountMismatchKeepsOriginals(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"• Only one bullet came back",
		"• Shipped Widget v1",
	}}

	doc := sampleDoc()
	res, err := New(gen, testOptions()).Optimize(context.Background(), doc, "job")
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "expected 2")
	assert.Equal(t, doc.Experience[0].Bullets, res.Document.Experience[0].Bullets)
	// The well-formed project response still lands.
	assert.Equal(t, []string{"Shipped Widget v1"}, res.Document.Projects[0].Bullets)
}

func TestOptimizeSkipsEntriesWithoutBullets(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"• anything"}}
	doc := &model.ResumeDocument{
		Experience: []model.Experience{{Company: "Quiet", Role: "Engineer"}},
	}

	_, err := New(gen, testOptions()).Optimize(context.Background(), doc, "job")
	require.NoError(t, err)
	assert.Zero(t, gen.calls)
}

func TestOptimizeCancelledContextAborts(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"• Bullet one\n• Bullet two", "• Shipped Widget v1"}}
	doc := sampleDoc()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{RequestDelay: time.Hour}
	_, err := New(gen, opts).Optimize(ctx, doc, "job")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPromptCarriesContractAndPriority(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"• Built a billing platform\n• Cut costs by 30%",
		"• Shipped Widget v1",
	}}
	doc := sampleDoc()
	doc.Experience[0].Priority = "high"

	_, err := New(gen, testOptions()).Optimize(context.Background(), doc, "Go backend role")
	require.NoError(t, err)
	require.NotEmpty(t, gen.prompts)

	first := gen.prompts[0]
	assert.Contains(t, first, "Go backend role")
	assert.Contains(t, first, "Experience at Acme as Engineer")
	assert.Contains(t, first, "high priority")
	assert.Contains(t, first, "MINOR tweaks")
	assert.Contains(t, first, "• Built a billing system")
}

func TestParseBullets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "bullet symbols",
			in:   "• First point\n• Second point\n",
			want: []string{"First point", "Second point"},
		},
		{
			name: "dashes and stars",
			in:   "- First\n* Second",
			want: []string{"First", "Second"},
		},
		{
			name: "chatter around the list is ignored",
			in:   "Here are the optimized bullets:\n• Only this one\nHope that helps!",
			want: []string{"Only this one"},
		},
		{
			name: "empty response",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBullets(tt.in))
		})
	}
}
