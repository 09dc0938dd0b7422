package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/socialdesk/socialdesk/internal/types"
)

// BaseQueryOptions describes how a table maps filter fields to columns
type BaseQueryOptions interface {
	// GetFieldName returns the column for a sort field, empty when the field is not sortable
	GetFieldName(field string) string
}

// listQuery accumulates conditions with ? placeholders and renders postgres statements
type listQuery struct {
	table   string
	where   []string
	args    []interface{}
	orderBy string
	limit   int
	offset  int
}

func newListQuery(table string) *listQuery {
	return &listQuery{table: table}
}

func (q *listQuery) Where(cond string, args ...interface{}) *listQuery {
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
	return q
}

// WhereIn adds column = ANY(values); empty values add nothing
func (q *listQuery) WhereIn(column string, values []string) *listQuery {
	if len(values) == 0 {
		return q
	}
	return q.Where(column+" = ANY(?)", pq.Array(values))
}

func (q *listQuery) ApplyTenantFilter(ctx context.Context) *listQuery {
	return q.Where("tenant_id = ?", types.GetTenantID(ctx))
}

func (q *listQuery) ApplyStatusFilter(status string) *listQuery {
	if status == "" {
		return q
	}
	return q.Where("status = ?", status)
}

func (q *listQuery) ApplyTimeRange(column string, f *types.TimeRangeFilter) *listQuery {
	if f == nil {
		return q
	}
	if f.StartTime != nil {
		q.Where(column+" >= ?", *f.StartTime)
	}
	if f.EndTime != nil {
		q.Where(column+" < ?", *f.EndTime)
	}
	return q
}

func (q *listQuery) ApplySortFilter(column, order string) *listQuery {
	if column == "" {
		column = "created_at"
	}
	if order != types.OrderAsc {
		order = types.OrderDesc
	}
	q.orderBy = fmt.Sprintf("%s %s, id %s", column, strings.ToUpper(order), strings.ToUpper(order))
	return q
}

func (q *listQuery) ApplyPaginationFilter(limit, offset int) *listQuery {
	q.limit = limit
	q.offset = offset
	return q
}

func (q *listQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// Select renders the list statement
func (q *listQuery) Select(columns string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT " + columns + " FROM " + q.table)
	sb.WriteString(q.whereClause())
	if q.orderBy != "" {
		sb.WriteString(" ORDER BY " + q.orderBy)
	}
	if q.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", q.limit, q.offset))
	}
	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), q.args
}

// Count renders a count statement over the same conditions
func (q *listQuery) Count() (string, []interface{}) {
	return sqlx.Rebind(sqlx.DOLLAR, "SELECT COUNT(*) FROM "+q.table+q.whereClause()), q.args
}

// ApplyBaseFilters applies tenant isolation and the row status
func ApplyBaseFilters(ctx context.Context, q *listQuery, filter *types.QueryFilter) *listQuery {
	q = q.ApplyTenantFilter(ctx)
	return q.ApplyStatusFilter(filter.GetStatus())
}

// ApplySorting orders by the requested field when the table allows it
func ApplySorting(q *listQuery, filter *types.QueryFilter, opts BaseQueryOptions) *listQuery {
	return q.ApplySortFilter(opts.GetFieldName(filter.GetSort()), filter.GetOrder())
}

// ApplyPagination applies limit and offset unless the filter is unlimited
func ApplyPagination(q *listQuery, filter *types.QueryFilter) *listQuery {
	if !filter.IsUnlimited() && filter.GetLimit() > 0 {
		q = q.ApplyPaginationFilter(filter.GetLimit(), filter.GetOffset())
	}
	return q
}

// ApplyQueryOptions applies sorting and pagination
func ApplyQueryOptions(q *listQuery, filter *types.QueryFilter, opts BaseQueryOptions) *listQuery {
	q = ApplySorting(q, filter, opts)
	return ApplyPagination(q, filter)
}

// sortableFields is the default BaseQueryOptions, keyed by API field name
type sortableFields map[string]string

func (s sortableFields) GetFieldName(field string) string {
	return s[field]
}

var defaultSortFields = sortableFields{
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func withDefaults(extra map[string]string) sortableFields {
	fields := sortableFields{}
	for k, v := range defaultSortFields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func pqStrings(values []string) interface{} {
	return pq.Array(values)
}
