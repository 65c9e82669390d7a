package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FindOptions は Find の検索条件。Where は等価条件のみ。
// 範囲条件が必要な場合は querybuilder を直接使う。
type FindOptions struct {
	Where   map[string]any
	OrderBy []querybuilder.Order
	Limit   int
	Offset  int
}

// BaseRepository はエンティティ共通の CRUD を提供する。
// Update/Delete はテナントを確認しないため、テナント所有のレコードを変更する
// エンティティリポジトリは scopedMutation を経由すること。
type BaseRepository[T any] struct {
	db           *gorm.DB
	name         string
	tenantColumn string
	dateColumns  map[string]bool
}

type BaseOption func(*baseConfig)

type baseConfig struct {
	tenantColumn string
	dateColumns  []string
}

// WithTenantColumn はテナントIDを保持するカラムを指定する (既定: igreja_id)
func WithTenantColumn(column string) BaseOption {
	return func(c *baseConfig) { c.tenantColumn = column }
}

// WithDateColumns は Update 時に日付として正規化するカラムを指定する
func WithDateColumns(columns ...string) BaseOption {
	return func(c *baseConfig) { c.dateColumns = append(c.dateColumns, columns...) }
}

func NewBaseRepository[T any](db *gorm.DB, name string, opts ...BaseOption) *BaseRepository[T] {
	cfg := baseConfig{tenantColumn: "igreja_id"}
	for _, opt := range opts {
		opt(&cfg)
	}
	dateColumns := make(map[string]bool, len(cfg.dateColumns))
	for _, c := range cfg.dateColumns {
		dateColumns[c] = true
	}
	return &BaseRepository[T]{
		db:           db,
		name:         name,
		tenantColumn: cfg.tenantColumn,
		dateColumns:  dateColumns,
	}
}

// DB は内部の接続を返す
func (r *BaseRepository[T]) DB() *gorm.DB {
	return r.db
}

func validateID(id uint) error {
	if id == 0 {
		return model.NewAppError("INVALID_ID", "id must be a positive integer", "id", model.ErrInvalidInput)
	}
	return nil
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return r.findByID(ctx, r.db, id)
}

// findByID は見つからない場合 (nil, nil) を返す
func (r *BaseRepository[T]) findByID(ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var entity T
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&entity)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding record by ID in DB",
			"error", result.Error,
			"repository", r.name,
			"id", id,
		)
		return nil, fmt.Errorf("%s.FindByID: %w", r.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.create(ctx, r.db, entity)
}

func (r *BaseRepository[T]) create(ctx context.Context, db *gorm.DB, entity *T) error {
	if n, ok := any(entity).(model.DateNormalizer); ok {
		n.NormalizeDates()
	}
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.translateWriteError(ctx, "Create", err)
	}
	return nil
}

// Update は部分更新を行い、更新後のレコードを返す。該当行がなければ ErrNotFound。
func (r *BaseRepository[T]) Update(ctx context.Context, id uint, updates map[string]any) (*T, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return r.update(ctx, r.db, id, updates)
}

func (r *BaseRepository[T]) update(ctx context.Context, db *gorm.DB, id uint, updates map[string]any) (*T, error) {
	if err := r.normalizeDates(updates); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		result := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, r.translateWriteError(ctx, "Update", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, model.ErrNotFound
		}
	}

	entity, err := r.findByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, model.ErrNotFound
	}
	return entity, nil
}

// Delete は行を削除し、実際に削除されたかどうかを返す。存在しない id は (false, nil)。
func (r *BaseRepository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	return r.delete(ctx, r.db, id)
}

func (r *BaseRepository[T]) delete(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting record in DB",
			"error", result.Error,
			"repository", r.name,
			"id", id,
		)
		return false, fmt.Errorf("%s.Delete: %w", r.name, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *BaseRepository[T]) Find(ctx context.Context, opts FindOptions) ([]T, error) {
	return r.FindWhere(ctx, querybuilder.Filter{
		Conditions: querybuilder.FromEquality(opts.Where),
		Order:      opts.OrderBy,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

// FindWhere は querybuilder の任意の条件で検索する
func (r *BaseRepository[T]) FindWhere(ctx context.Context, f querybuilder.Filter) ([]T, error) {
	q, err := querybuilder.Apply(r.db.WithContext(ctx).Model(new(T)), f)
	if err != nil {
		return nil, err
	}
	entities := make([]T, 0)
	if err := q.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("%s.Find: %w", r.name, err)
	}
	return entities, nil
}

// Paginate は 1 始まりのページングを行う。範囲外のページは空の Data を返す。
func (r *BaseRepository[T]) Paginate(ctx context.Context, page, pageSize int, conds ...querybuilder.Condition) (*model.Page[T], error) {
	if page < 1 || pageSize < 1 {
		return nil, model.NewAppError("INVALID_PAGINATION", "page and page_size must be positive", "page", model.ErrInvalidInput)
	}

	base, err := querybuilder.Apply(r.db.WithContext(ctx).Model(new(T)), querybuilder.Filter{Conditions: conds})
	if err != nil {
		return nil, err
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%s.Paginate: %w", r.name, err)
	}

	result := &model.Page[T]{
		Data:       make([]T, 0),
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	offset := (page - 1) * pageSize
	if int64(offset) >= total {
		return result, nil
	}

	if err := base.Session(&gorm.Session{}).Order("id").Offset(offset).Limit(pageSize).Find(&result.Data).Error; err != nil {
		return nil, fmt.Errorf("%s.Paginate: %w", r.name, err)
	}
	return result, nil
}

// Exists は行データを取得せずに存在確認を行う
func (r *BaseRepository[T]) Exists(ctx context.Context, id uint) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	var ids []uint
	if err := r.probe(ctx, r.db).Where("id = ?", id).Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("%s.Exists: %w", r.name, err)
	}
	return len(ids) > 0, nil
}

// Transaction は fn をトランザクション内で実行する。エラーまたは panic でロールバックされる。
func (r *BaseRepository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// probe は行を読み込まずにカラムだけを取得するクエリ (AfterFind などのフックは呼ばない)
func (r *BaseRepository[T]) probe(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{SkipHooks: true}).WithContext(ctx).Model(new(T))
}

// ensureTenantAccess はレコードが igrejaID に属することを確認する。
// 存在しなければ ErrNotFound、別テナントなら ErrUnauthorized。
func (r *BaseRepository[T]) ensureTenantAccess(ctx context.Context, db *gorm.DB, id, igrejaID uint) error {
	var owners []*uint
	err := r.probe(ctx, db).Where("id = ?", id).Limit(1).Pluck(r.tenantColumn, &owners).Error
	if err != nil {
		return fmt.Errorf("%s.ensureTenantAccess: %w", r.name, err)
	}
	if len(owners) == 0 {
		return model.ErrNotFound
	}
	if owners[0] == nil || *owners[0] != igrejaID {
		middleware.GetLogger(ctx).Warn("Tenant ownership check failed",
			"repository", r.name,
			"id", id,
			"igreja_id", igrejaID,
		)
		return model.ErrUnauthorized
	}
	return nil
}

// scopedMutation はテナント所有レコードを変更する唯一の経路。
// 所有者確認と fn を同一トランザクションで実行する。
func (r *BaseRepository[T]) scopedMutation(ctx context.Context, id, igrejaID uint, fn func(tx *gorm.DB) error) error {
	if igrejaID == 0 {
		return model.ErrTenantRequired
	}
	if err := validateID(id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureTenantAccess(ctx, tx, id, igrejaID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (r *BaseRepository[T]) normalizeDates(updates map[string]any) error {
	for column, value := range updates {
		if !r.dateColumns[column] {
			continue
		}
		d, err := model.ParseDate(value)
		if err != nil {
			return model.NewAppError("INVALID_DATE", err.Error(), column, model.ErrInvalidInput)
		}
		if d == nil {
			updates[column] = nil
		} else {
			updates[column] = *d
		}
	}
	return nil
}

func (r *BaseRepository[T]) translateWriteError(ctx context.Context, op string, err error) error {
	if isUniqueViolation(err) {
		middleware.GetLogger(ctx).Warn("Duplicate key error", "repository", r.name, "op", op, "error", err)
		return model.NewAppError("DUPLICATE_ENTRY", "registro duplicado", "", model.ErrConflict)
	}
	middleware.GetLogger(ctx).Error("Error writing record in DB", "repository", r.name, "op", op, "error", err)
	return fmt.Errorf("%s.%s: %w", r.name, op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireTenant(igrejaID uint) error {
	if igrejaID == 0 {
		return model.ErrTenantRequired
	}
	return nil
}
