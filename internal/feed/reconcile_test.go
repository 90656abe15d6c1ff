package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"AiFeedOptimizer-admin/internal/models"
)

func TestIsGapAttribute(t *testing.T) {
	ctx := models.RowContext{
		"brand": "Acme",
		"color": "",
	}
	originalTemplate := Template{"brand", "color"}

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{
			// 有有效值的欄位永遠不是缺口
			name: "truthy declared key",
			key:  "brand",
			want: false,
		},
		{
			// 已宣告但為空：即使原始範本引用同一個鍵，仍視為缺口
			name: "declared but empty key referenced by original template",
			key:  "color",
			want: true,
		},
		{
			// 未宣告且不在原始範本中：模型無中生有的缺口
			name: "undeclared key",
			key:  "material",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGapAttribute(ctx, originalTemplate, tt.key))
		})
	}
}

func TestIsGapAttributeUndeclaredInOriginalTemplate(t *testing.T) {
	// 未宣告於欄位集合、但原始範本引用了該鍵：不視為缺口
	ctx := models.RowContext{"brand": "Acme"}
	originalTemplate := Template{"brand", "style"}
	assert.False(t, IsGapAttribute(ctx, originalTemplate, "style"))
}

func TestReconcile(t *testing.T) {
	ctx := models.RowContext{
		"item_id": "sku-1",
		"title":   "Red Shoe",
		"brand":   "Acme",
		"color":   "Red",
		"size":    "",
	}
	resp := &TitleResponse{
		OriginalTitleKeys: []string{"color", "title"},
		Category:          "Shoes",
		AttributeKeys:     []string{"brand", "color", "size", "material"},
		AttributeValues:   []string{"Acme", "Crimson", "10", "Leather"},
	}

	rec := Reconcile(ctx, resp)

	// 原始值優先：color 保留列值 Red 而非模型的 Crimson
	assert.Equal(t, "Acme Red 10 Leather", rec.GeneratedTitle)
	assert.Equal(t, Template{"color", "title"}, rec.OriginalTemplate)
	assert.Equal(t, Template{"brand", "color", "size", "material"}, rec.GeneratedTemplate)
	// size 已宣告但為空（回填缺口）、material 未宣告（無中生有缺口）
	assert.Equal(t, []string{"size", "material"}, rec.GapKeys)
	assert.Equal(t, map[string]string{"size": "10", "material": "Leather"}, rec.GapAttributes)
}

func TestReconcileValuesShorterThanKeys(t *testing.T) {
	ctx := models.RowContext{"brand": "Acme"}
	resp := &TitleResponse{
		AttributeKeys:   []string{"brand", "color"},
		AttributeValues: []string{"Acme"},
	}

	rec := Reconcile(ctx, resp)

	// 超出值序列的鍵以空字串處理
	assert.Equal(t, "Acme ", rec.GeneratedTitle)
	assert.Equal(t, map[string]string{"color": ""}, rec.GapAttributes)
}

func TestReconcileNoAttributes(t *testing.T) {
	ctx := models.RowContext{"title": "Red Shoe"}
	rec := Reconcile(ctx, &TitleResponse{Category: "Shoes"})

	assert.Equal(t, "", rec.GeneratedTitle)
	assert.Empty(t, rec.GapKeys)
	assert.Empty(t, rec.GapAttributes)
}
