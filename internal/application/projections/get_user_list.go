package projections

import (
	"context"

	"resultroad/internal/adapters/storage/profile"
	"resultroad/internal/application/listutil"
	domain "resultroad/internal/domain/profile"
)

// UserListStore defines the profile store interface needed by the user list.
type UserListStore interface {
	List(ctx context.Context, filter profile.ListFilter) ([]domain.Profile, error)
	Count(ctx context.Context, filter profile.ListFilter) (int, error)
}

// UserListSortColumns are the sortable columns on the admin user list.
var UserListSortColumns = []string{"email", "name", "role", "created"}

// UserListFilterKeys are the recognised filter parameters.
var UserListFilterKeys = []string{"role", "status"}

// UserListResult carries one page of the admin user list.
type UserListResult struct {
	Users    []domain.Profile
	PageInfo listutil.PageInfo
}

// QueryGetUserList returns one page of profiles matching the list
// parameters.
// PRE: params came from listutil.Parse, so sort/filter keys are vetted
// POST: PageInfo.Total reflects the filtered count, not the page size
func QueryGetUserList(ctx context.Context, params listutil.Params, deps UserListStore) (UserListResult, error) {
	filter := profile.ListFilter{
		Role:   params.Filters["role"],
		Status: params.Filters["status"],
		Search: params.Search,
		Sort:   params.Sort,
		Dir:    params.Dir,
	}

	total, err := deps.Count(ctx, filter)
	if err != nil {
		return UserListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(params.Page, params.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	users, err := deps.List(ctx, filter)
	if err != nil {
		return UserListResult{}, err
	}

	return UserListResult{Users: users, PageInfo: pageInfo}, nil
}
