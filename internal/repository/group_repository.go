package repository

import (
	"context"
	"fmt"

	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/validation"

	"gorm.io/gorm"
)

type GroupRepository interface {
	GetAll(ctx context.Context, igrejaID uint) ([]model.Group, error)
	GetByID(ctx context.Context, igrejaID, id uint) (*model.Group, error)
	Create(ctx context.Context, igrejaID uint, input *model.GroupInput) (*model.Group, error)
	Update(ctx context.Context, igrejaID, id uint, patch *model.GroupPatch) (*model.Group, error)
	Delete(ctx context.Context, igrejaID, id uint) error
	GetMembers(ctx context.Context, igrejaID, groupID uint) ([]model.GroupMemberDetail, error)
}

type gormGroupRepository struct {
	base *BaseRepository[model.Group]
}

func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &gormGroupRepository{
		base: NewBaseRepository[model.Group](db, "gormGroupRepository"),
	}
}

// withMemberCount は member_count を集計するクエリを返す
func withMemberCount(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Group{}).
		Select("church_groups.*, COUNT(church_group_members.member_id) AS member_count").
		Joins("LEFT JOIN church_group_members ON church_group_members.group_id = church_groups.id").
		Group("church_groups.id")
}

func (r *gormGroupRepository) GetAll(ctx context.Context, igrejaID uint) ([]model.Group, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	groups := make([]model.Group, 0)
	err := withMemberCount(r.base.DB().WithContext(ctx)).
		Where("church_groups.igreja_id = ?", igrejaID).
		Order("church_groups.name, church_groups.id").
		Find(&groups).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing groups in DB", "error", err, "igreja_id", igrejaID)
		return nil, fmt.Errorf("gormGroupRepository.GetAll: %w", err)
	}
	return groups, nil
}

func (r *gormGroupRepository) GetByID(ctx context.Context, igrejaID, id uint) (*model.Group, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	return r.findWithCount(ctx, r.base.DB(), igrejaID, id)
}

func (r *gormGroupRepository) findWithCount(ctx context.Context, db *gorm.DB, igrejaID, id uint) (*model.Group, error) {
	var groups []model.Group
	err := withMemberCount(db.WithContext(ctx)).
		Where("church_groups.id = ? AND church_groups.igreja_id = ?", id, igrejaID).
		Limit(1).
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("gormGroupRepository.GetByID: %w", err)
	}
	if len(groups) == 0 {
		return nil, model.ErrNotFound
	}
	return &groups[0], nil
}

// Create はグループと所属者を1トランザクションで登録する
func (r *gormGroupRepository) Create(ctx context.Context, igrejaID uint, input *model.GroupInput) (*model.Group, error) {
	if err := requireTenant(igrejaID); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.GroupActive
	}
	group := &model.Group{
		IgrejaID:    igrejaID,
		Name:        input.Name,
		Kind:        input.Kind,
		Status:      status,
		Description: input.Description,
	}

	var created *model.Group
	err := r.base.Transaction(ctx, func(tx *gorm.DB) error {
		if err := r.base.create(ctx, tx, group); err != nil {
			return err
		}
		if err := r.insertMembers(ctx, tx, igrejaID, group.ID, input.Members); err != nil {
			return err
		}
		var err error
		created, err = r.findWithCount(ctx, tx, igrejaID, group.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update は Members が指定された場合、所属者を全件置き換える
func (r *gormGroupRepository) Update(ctx context.Context, igrejaID, id uint, patch *model.GroupPatch) (*model.Group, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	var updated *model.Group
	err := r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if _, err := r.base.update(ctx, tx, id, patch.ToUpdates()); err != nil {
			return err
		}
		if patch.Members != nil {
			if err := tx.WithContext(ctx).Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
				return fmt.Errorf("gormGroupRepository.Update: %w", err)
			}
			if err := r.insertMembers(ctx, tx, igrejaID, id, *patch.Members); err != nil {
				return err
			}
		}
		var err error
		updated, err = r.findWithCount(ctx, tx, igrejaID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete は所属者行を削除してからグループを削除する
func (r *gormGroupRepository) Delete(ctx context.Context, igrejaID, id uint) error {
	return r.base.scopedMutation(ctx, id, igrejaID, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
			return fmt.Errorf("gormGroupRepository.Delete: %w", err)
		}
		_, err := r.base.delete(ctx, tx, id)
		return err
	})
}

// GetMembers は所属者を教会員名の順で返す
func (r *gormGroupRepository) GetMembers(ctx context.Context, igrejaID, groupID uint) ([]model.GroupMemberDetail, error) {
	if _, err := r.GetByID(ctx, igrejaID, groupID); err != nil {
		return nil, err
	}

	details := make([]model.GroupMemberDetail, 0)
	err := r.base.DB().WithContext(ctx).
		Table("church_group_members").
		Select("members.id AS member_id, members.name, members.email, members.phone, members.status, church_group_members.role").
		Joins("JOIN members ON members.id = church_group_members.member_id").
		Where("church_group_members.group_id = ? AND members.igreja_id = ?", groupID, igrejaID).
		Order("members.name, members.id").
		Scan(&details).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing group members in DB", "error", err, "group_id", groupID)
		return nil, fmt.Errorf("gormGroupRepository.GetMembers: %w", err)
	}
	return details, nil
}

func (r *gormGroupRepository) insertMembers(ctx context.Context, tx *gorm.DB, igrejaID, groupID uint, members []model.GroupMemberInput) error {
	if len(members) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.MemberID)
	}
	if err := ensureMembersOwned(ctx, tx, igrejaID, ids); err != nil {
		return err
	}

	rows := make([]model.GroupMember, 0, len(members))
	for _, m := range members {
		rows = append(rows, model.GroupMember{GroupID: groupID, MemberID: m.MemberID, Role: m.Role})
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return model.NewAppError("DUPLICATE_ENTRY", "membro duplicado no grupo", "members", model.ErrConflict)
		}
		return fmt.Errorf("gormGroupRepository.insertMembers: %w", err)
	}
	return nil
}

// ensureMembersOwned は教会員IDがすべて存在し、igrejaID に属することを確認する
func ensureMembersOwned(ctx context.Context, db *gorm.DB, igrejaID uint, memberIDs []uint) error {
	var owners []struct {
		ID       uint
		IgrejaID uint
	}
	err := db.WithContext(ctx).Model(&model.Member{}).
		Select("id, igreja_id").
		Where("id IN ?", memberIDs).
		Scan(&owners).Error
	if err != nil {
		return fmt.Errorf("ensureMembersOwned: %w", err)
	}
	if len(owners) != len(memberIDs) {
		return model.NewAppError("MEMBER_NOT_FOUND", "membro não encontrado", "member_id", model.ErrNotFound)
	}
	for _, o := range owners {
		if o.IgrejaID != igrejaID {
			return model.ErrUnauthorized
		}
	}
	return nil
}
