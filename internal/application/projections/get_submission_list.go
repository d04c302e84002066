package projections

import (
	"context"

	store "resultroad/internal/adapters/storage/submission"
	"resultroad/internal/application/listutil"
	domainProfile "resultroad/internal/domain/profile"
	domain "resultroad/internal/domain/submission"
)

// SubmissionListStore defines the submission store interface needed here.
type SubmissionListStore interface {
	List(ctx context.Context, filter store.ListFilter) ([]domain.Submission, error)
	Count(ctx context.Context, filter store.ListFilter) (int, error)
}

// SubmitterResolver resolves submitter IDs to profiles for display.
type SubmitterResolver interface {
	GetByID(ctx context.Context, id string) (domainProfile.Profile, error)
}

// SubmissionListSortColumns are the sortable columns on the review list.
var SubmissionListSortColumns = []string{"created", "kind", "rating"}

// SubmissionListFilterKeys are the recognised filter parameters.
var SubmissionListFilterKeys = []string{"kind", "role", "program"}

// SubmissionListDeps holds dependencies for the submission list projection.
type SubmissionListDeps struct {
	SubmissionStore SubmissionListStore
	ProfileStore    SubmitterResolver
}

// SubmissionRow pairs a submission with its submitter's display data.
type SubmissionRow struct {
	Submission     domain.Submission
	SubmitterEmail string
	SubmitterName  string
}

// SubmissionListResult carries one page of the admin review list.
type SubmissionListResult struct {
	Rows     []SubmissionRow
	PageInfo listutil.PageInfo
}

// QueryGetSubmissionList returns one page of submissions with their
// submitters resolved. An unresolvable submitter renders with the raw
// ID rather than dropping the row.
// PRE: params came from listutil.Parse
// POST: len(Rows) <= params.PerPage
func QueryGetSubmissionList(ctx context.Context, params listutil.Params, deps SubmissionListDeps) (SubmissionListResult, error) {
	filter := store.ListFilter{
		Kind:      params.Filters["kind"],
		Role:      params.Filters["role"],
		ProgramID: params.Filters["program"],
		Search:    params.Search,
		Sort:      params.Sort,
		Dir:       params.Dir,
	}

	total, err := deps.SubmissionStore.Count(ctx, filter)
	if err != nil {
		return SubmissionListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(params.Page, params.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	subs, err := deps.SubmissionStore.List(ctx, filter)
	if err != nil {
		return SubmissionListResult{}, err
	}

	rows := make([]SubmissionRow, 0, len(subs))
	resolved := make(map[string]domainProfile.Profile, len(subs))
	for _, s := range subs {
		row := SubmissionRow{Submission: s, SubmitterEmail: s.SubmitterID}
		prof, ok := resolved[s.SubmitterID]
		if !ok {
			if p, err := deps.ProfileStore.GetByID(ctx, s.SubmitterID); err == nil {
				prof, ok = p, true
				resolved[s.SubmitterID] = p
			}
		}
		if ok {
			row.SubmitterEmail = prof.Email
			row.SubmitterName = prof.DisplayName
		}
		rows = append(rows, row)
	}

	return SubmissionListResult{Rows: rows, PageInfo: pageInfo}, nil
}
