package implementation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type folderItemRow struct {
	ParentId uuid.UUID
	ChildId  uuid.UUID
	Seq      *int
}

type FolderItemRepositoryImpl struct {
	db    *gorm.DB
	table contract.JoinTable
}

func NewFolderItemRepository(db *gorm.DB, table contract.JoinTable) contract.FolderItemRepository {
	return &FolderItemRepositoryImpl{
		db:    db,
		table: table,
	}
}

func (r *FolderItemRepositoryImpl) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(r.table.Name).
		Select(fmt.Sprintf("%s AS parent_id, %s AS child_id, seq", r.table.ParentColumn, r.table.ChildColumn))
}

// Rows without seq sort last, ties by child id.
func (r *FolderItemRepositoryImpl) ordered(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN seq IS NULL THEN 1 ELSE 0 END").Order("seq ASC").Order(r.table.ChildColumn + " ASC")
}

func (r *FolderItemRepositoryImpl) rows(db *gorm.DB) ([]folderItemRow, error) {
	var rows []folderItemRow
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *FolderItemRepositoryImpl) ChildIDs(ctx context.Context, parentId uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.rows(r.ordered(r.query(ctx).Where(r.table.ParentColumn+" = ?", parentId)))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ChildId)
	}
	return ids, nil
}

func (r *FolderItemRepositoryImpl) ParentIDs(ctx context.Context, childId uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.rows(r.query(ctx).Where(r.table.ChildColumn+" = ?", childId).Order(r.table.ParentColumn + " ASC"))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ParentId)
	}
	return ids, nil
}

func (r *FolderItemRepositoryImpl) ChildIDsByParents(ctx context.Context, parentIds []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	res := make(map[uuid.UUID][]uuid.UUID, len(parentIds))
	if len(parentIds) == 0 {
		return res, nil
	}
	rows, err := r.rows(r.ordered(r.query(ctx).Where(r.table.ParentColumn+" IN ?", parentIds)))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.ParentId] = append(res[row.ParentId], row.ChildId)
	}
	return res, nil
}

func (r *FolderItemRepositoryImpl) ParentIDsByChildren(ctx context.Context, childIds []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	res := make(map[uuid.UUID][]uuid.UUID, len(childIds))
	if len(childIds) == 0 {
		return res, nil
	}
	rows, err := r.rows(r.query(ctx).Where(r.table.ChildColumn+" IN ?", childIds).Order(r.table.ParentColumn + " ASC"))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.ChildId] = append(res[row.ChildId], row.ParentId)
	}
	return res, nil
}

func (r *FolderItemRepositoryImpl) insert(ctx context.Context, rows []folderItemRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, map[string]interface{}{
			r.table.ParentColumn: row.ParentId,
			r.table.ChildColumn:  row.ChildId,
			"seq":                row.Seq,
		})
	}
	return r.db.WithContext(ctx).Table(r.table.Name).Create(&values).Error
}

func (r *FolderItemRepositoryImpl) ReplaceForParent(ctx context.Context, parentId uuid.UUID, childIds []uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table.Name, r.table.ParentColumn), parentId).Error
	if err != nil {
		return err
	}
	rows := make([]folderItemRow, 0, len(childIds))
	for i, id := range childIds {
		seq := i
		rows = append(rows, folderItemRow{ParentId: parentId, ChildId: id, Seq: &seq})
	}
	return r.insert(ctx, rows)
}

func (r *FolderItemRepositoryImpl) ReplaceForChild(ctx context.Context, childId uuid.UUID, parentIds []uuid.UUID) error {
	current, err := r.ParentIDs(ctx, childId)
	if err != nil {
		return err
	}
	keep := make(map[uuid.UUID]bool, len(parentIds))
	for _, id := range parentIds {
		keep[id] = true
	}
	existing := make(map[uuid.UUID]bool, len(current))
	var stale []uuid.UUID
	for _, id := range current {
		existing[id] = true
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		err := r.db.WithContext(ctx).Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s IN ?", r.table.Name, r.table.ChildColumn, r.table.ParentColumn),
			childId, stale,
		).Error
		if err != nil {
			return err
		}
	}

	var rows []folderItemRow
	for _, parentId := range parentIds {
		if existing[parentId] {
			continue
		}
		next, err := r.nextSeq(ctx, parentId)
		if err != nil {
			return err
		}
		rows = append(rows, folderItemRow{ParentId: parentId, ChildId: childId, Seq: &next})
	}
	return r.insert(ctx, rows)
}

func (r *FolderItemRepositoryImpl) nextSeq(ctx context.Context, parentId uuid.UUID) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Table(r.table.Name).
		Where(r.table.ParentColumn+" = ?", parentId).
		Select("MAX(seq)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
