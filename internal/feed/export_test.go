package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AiFeedOptimizer-admin/internal/models"
)

func TestBuildExportNoRecords(t *testing.T) {
	assert.Nil(t, BuildExport(nil))
	assert.Nil(t, BuildExport([]*models.GeneratedRecord{}))
}

func TestBuildExportPartitionsGapAndInventedColumns(t *testing.T) {
	// 第一列回填已宣告的 color；第二列無中生有 material
	recA := &models.GeneratedRecord{
		ItemID:               "sku-1",
		GeneratedTitle:       "Red Shoe",
		GeneratedDescription: "A red shoe.",
		GeneratedTemplate:    "<color> <title>",
		GapAttributes:        map[string]string{"color": "Red"},
		OriginalInput:        models.RowContext{"item_id": "sku-1", "title": "Shoe", "color": ""},
	}
	recB := &models.GeneratedRecord{
		ItemID:               "sku-2",
		GeneratedTitle:       "Wood Table",
		GeneratedDescription: "A wooden table.",
		GeneratedTemplate:    "<material> <title>",
		GapAttributes:        map[string]string{"material": "Wood"},
		OriginalInput:        models.RowContext{"item_id": "sku-2", "title": "Table", "color": "Brown"},
	}

	table := BuildExport([]*models.GeneratedRecord{recA, recB})
	require.NotNil(t, table)

	// color 曾宣告於某列的原始輸入 → 缺口欄；material 從未宣告 → new_ 欄
	assert.Equal(t, []string{"color"}, table.GapKeys)
	assert.Equal(t, []string{"material"}, table.InventedKeys)
	assert.Equal(t, []string{"id", "title", "description", "color", "new_material"}, table.Headers)

	require.Len(t, table.Rows, 2)
	// 第一列：自己的缺口值 color=Red；material 非本列缺口，回退原始輸入（空）
	assert.Equal(t, []string{"sku-1", "Red Shoe", "A red shoe.", "Red", ""}, table.Rows[0])
	// 第二列：color 非本列缺口，回退原始輸入 Brown；material 用本列缺口值
	assert.Equal(t, []string{"sku-2", "Wood Table", "A wooden table.", "Brown", "Wood"}, table.Rows[1])
}

func TestBuildExportColumnOrderIsFirstSeen(t *testing.T) {
	recA := &models.GeneratedRecord{
		ItemID:            "sku-1",
		GeneratedTemplate: "<size> <color>",
		GapAttributes:     map[string]string{"size": "10", "color": "Red"},
		OriginalInput:     models.RowContext{"size": "", "color": ""},
	}
	recB := &models.GeneratedRecord{
		ItemID:            "sku-2",
		GeneratedTemplate: "<color> <weight>",
		GapAttributes:     map[string]string{"color": "Blue", "weight": "2kg"},
		OriginalInput:     models.RowContext{"size": "", "color": ""},
	}

	table := BuildExport([]*models.GeneratedRecord{recA, recB})
	require.NotNil(t, table)

	// 依各列生成範本的鍵序做首見合併：size、color 來自第一列，weight 來自第二列
	assert.Equal(t, []string{"size", "color"}, table.GapKeys)
	assert.Equal(t, []string{"weight"}, table.InventedKeys)
	assert.Equal(t, []string{"id", "title", "description", "size", "color", "new_weight"}, table.Headers)
}

func TestBuildExportGapKeyOutsideTemplateStillExported(t *testing.T) {
	rec := &models.GeneratedRecord{
		ItemID:            "sku-1",
		GeneratedTemplate: "<color>",
		GapAttributes:     map[string]string{"color": "Red", "zeta": "z", "alpha": "a"},
		OriginalInput:     models.RowContext{"color": ""},
	}

	table := BuildExport([]*models.GeneratedRecord{rec})
	require.NotNil(t, table)

	// 範本外的缺口鍵補在該列鍵序尾端並排序，確保輸出穩定
	assert.Equal(t, []string{"color"}, table.GapKeys)
	assert.Equal(t, []string{"alpha", "zeta"}, table.InventedKeys)
}
