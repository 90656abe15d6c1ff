package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"AiFeedOptimizer-admin/internal/models"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain words lowercased",
			input: "Red SHOE 10",
			want:  []string{"red", "shoe", "10"},
		},
		{
			name:  "quoted phrase kept whole",
			input: `Acme "Mountain Pro" Boot`,
			want:  []string{"acme", "mountain pro", "boot"},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestInputWordSet(t *testing.T) {
	ctx := models.RowContext{
		"title": "Red Shoe",
		"brand": "Acme",
	}
	words := InputWordSet(ctx)
	assert.True(t, words["red"])
	assert.True(t, words["shoe"])
	assert.True(t, words["acme"])
	assert.False(t, words["blue"])
}

func TestScoreAllIndicators(t *testing.T) {
	ctx := models.RowContext{
		"title": "Red Shoe",
		"color": "Red",
		"size":  "",
	}
	rec := &Reconciliation{
		GeneratedTitle:    "Red Shoe 10 Leather",
		OriginalTemplate:  Template{"color"},
		GeneratedTemplate: Template{"color", "size", "material"},
		GapKeys:           []string{"size", "material"},
		GapAttributes:     map[string]string{"size": "10", "material": "Leather"},
	}

	m := Score(ctx, "Red Shoe", rec)

	assert.True(t, m.TitleChanged)
	assert.Equal(t, []string{"size", "material"}, m.AddedAttributes)
	assert.Equal(t, "<size> <material>", m.AddedAttributesDisplay())
	// 10 與 leather 未出現於任何輸入值
	assert.Equal(t, []string{"10", "leather"}, m.NewWords)
	assert.Equal(t, "10 | leather", m.NewWordsDisplay())
	assert.Equal(t, []string{"size"}, m.GapFilled)
	assert.Equal(t, []string{"material"}, m.GapInvented)
	// 五個指標中有四個成立（NewWords 非空使保真指標落空）
	assert.InDelta(t, 0.8, m.TotalScore, 1e-9)
}

func TestScoreUnchangedTitle(t *testing.T) {
	ctx := models.RowContext{"title": "Red Shoe", "color": "Red"}
	rec := &Reconciliation{
		GeneratedTitle:    "Red Shoe",
		OriginalTemplate:  Template{"color"},
		GeneratedTemplate: Template{"color"},
	}

	m := Score(ctx, "Red Shoe", rec)

	assert.False(t, m.TitleChanged)
	assert.Empty(t, m.AddedAttributes)
	assert.Empty(t, m.NewWords)
	assert.Empty(t, m.GapFilled)
	assert.Empty(t, m.GapInvented)
	// 只有「無新字」一個指標成立
	assert.InDelta(t, 0.2, m.TotalScore, 1e-9)
}

func TestScoreTotalScoreIsAlwaysAFifth(t *testing.T) {
	recs := []*Reconciliation{
		{GeneratedTitle: "a", GeneratedTemplate: Template{"x"}},
		{GeneratedTitle: "", OriginalTemplate: Template{"x"}, GeneratedTemplate: Template{"x"}},
		{
			GeneratedTitle:    "Red 10",
			GeneratedTemplate: Template{"color", "size"},
			GapKeys:           []string{"size"},
		},
	}
	ctx := models.RowContext{"color": "Red"}
	for _, rec := range recs {
		m := Score(ctx, "Red", rec)
		fifths := m.TotalScore * 5
		assert.InDelta(t, float64(int(fifths+0.5)), fifths, 1e-9)
		assert.GreaterOrEqual(t, m.TotalScore, 0.0)
		assert.LessOrEqual(t, m.TotalScore, 1.0)
	}
}

func TestScoreNewWordsDeduplicated(t *testing.T) {
	ctx := models.RowContext{"title": "Shoe"}
	rec := &Reconciliation{
		GeneratedTitle:    "Leather Shoe Leather",
		GeneratedTemplate: Template{"material", "title", "material"},
	}

	m := Score(ctx, "Shoe", rec)
	assert.Equal(t, []string{"leather"}, m.NewWords)
}
