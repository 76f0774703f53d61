package memory

import (
	"fmt"
	"sort"
	"strings"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

// The in-memory repositories interpret the same specifications the gorm
// implementations translate to SQL. Only the specs the services actually use
// are supported; an unknown spec panics so a test failure points at the gap
// instead of silently returning wrong data.

func matchFolder(spec specification.Specification, f *entity.Folder) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return f.Id == s.ID
	case specification.ByIDs:
		return containsID(s.IDs, f.Id)
	case specification.ByParentID:
		return sameParent(f.ParentId, s.ParentID)
	case specification.ByParentIDs:
		return f.ParentId != nil && containsID(s.ParentIDs, *f.ParentId)
	case specification.UserOwnedBy:
		return f.UserId == s.UserID
	case specification.NotDeleted:
		return f.DeletedAt == nil
	case specification.GenerationSearchQuery:
		return strings.Contains(strings.ToLower(f.Name), strings.ToLower(s.Query))
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported folder specification %T", spec))
	}
}

func matchGeneration(spec specification.Specification, g *entity.Generation) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return g.Id == s.ID
	case specification.ByIDs:
		return containsID(s.IDs, g.Id)
	case specification.ByFolderID:
		return sameParent(g.FolderId, s.FolderID)
	case specification.ByFolderIDs:
		return g.FolderId != nil && containsID(s.FolderIDs, *g.FolderId)
	case specification.ByContentType:
		return g.ContentType == s.ContentType
	case specification.UserOwnedBy:
		return g.UserId == s.UserID
	case specification.NotDeleted:
		return g.DeletedAt == nil
	case specification.GenerationSearchQuery:
		return strings.Contains(strings.ToLower(g.Name), strings.ToLower(s.Query))
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported generation specification %T", spec))
	}
}

func matchEmbedding(spec specification.Specification, e *entity.GenerationEmbedding) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return e.Id == s.ID
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported embedding specification %T", spec))
	}
}

func matchUser(spec specification.Specification, u *entity.User) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return u.Id == s.ID
	case specification.ByEmail:
		return u.Email == s.Email
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported user specification %T", spec))
	}
}

func matchPlan(spec specification.Specification, p *entity.SubscriptionPlan) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return p.Id == s.ID
	case specification.FilterBy:
		switch s.Field {
		case "name":
			return p.Name == s.Value
		case "slug":
			return p.Slug == s.Value
		case "is_active":
			v, ok := s.Value.(bool)
			return ok && p.IsActive == v
		}
		panic(fmt.Sprintf("memory: unsupported plan filter field %q", s.Field))
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported plan specification %T", spec))
	}
}

func matchSubscription(spec specification.Specification, sub *entity.UserSubscription) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return sub.Id == s.ID
	case specification.UserOwnedBy:
		return sub.UserId == s.UserID
	case specification.FilterBy:
		switch s.Field {
		case "status":
			return sub.Status == s.Value
		case "midtrans_transaction_id":
			return sub.MidtransTransactionId != nil && *sub.MidtransTransactionId == s.Value
		}
		panic(fmt.Sprintf("memory: unsupported subscription filter field %q", s.Field))
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported subscription specification %T", spec))
	}
}

func matchBilling(spec specification.Specification, b *entity.BillingAddress) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return b.Id == s.ID
	case specification.UserOwnedBy:
		return b.UserId == s.UserID
	case specification.FilterBy:
		if s.Field == "is_default" {
			v, ok := s.Value.(bool)
			return ok && b.IsDefault == v
		}
		panic(fmt.Sprintf("memory: unsupported billing filter field %q", s.Field))
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		panic(fmt.Sprintf("memory: unsupported billing specification %T", spec))
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sameParent(actual, wanted *uuid.UUID) bool {
	if wanted == nil {
		return actual == nil
	}
	return actual != nil && *actual == *wanted
}

// orderAndPage applies any OrderBy and Pagination specs after filtering, the
// way the SQL implementations order and limit result sets.
func orderAndPage[T any](items []T, specs []specification.Specification, key func(T, string) string) []T {
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok {
			sort.SliceStable(items, func(i, j int) bool {
				less := key(items[i], order.Field) < key(items[j], order.Field)
				if order.Desc {
					return !less
				}
				return less
			})
		}
	}
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			if page.Offset >= len(items) {
				return nil
			}
			items = items[page.Offset:]
			if page.Limit > 0 && page.Limit < len(items) {
				items = items[:page.Limit]
			}
		}
	}
	return items
}
