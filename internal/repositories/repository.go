package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Join struct {
	Table    string
	Alias    string
	OnLeft   string
	OnRight  string
	JoinType string
}

func (j *Join) EffectiveAlias() string {
	if j.Alias != "" {
		return j.Alias
	}
	return getBaseName(j.Table)
}

type Params struct {
	WithPg                bool
	Table                 string
	Alias                 string
	Columns               string
	Relations             []Join
	Filter                map[string]interface{}
	Where                 map[string]interface{}
	Limit                 uint64
	Offset                uint64
	Search                string
	OrderBy               string
	AllowedFilterCollumns []string
	AllowedSearchCollumns []string
}

func contains(list []string, item string) bool {
	for _, val := range list {
		if strings.EqualFold(val, item) {
			return true
		}
	}
	return false
}

func getBaseName(identifier string) string {
	parts := strings.Split(identifier, ".")
	return parts[len(parts)-1]
}

func applyQueryConditions(builder sq.SelectBuilder, params Params) (sq.SelectBuilder, error) {
	if len(params.Filter) > 0 {
		for key, val := range params.Filter {
			if contains(params.AllowedFilterCollumns, key) {
				builder = builder.Where(sq.Eq{key: val})
			}
		}
	}

	for k, v := range params.Where {
		builder = builder.Where(sq.Eq{k: v})
	}

	if params.Search != "" && len(params.AllowedSearchCollumns) > 0 {
		var conditions []sq.Sqlizer
		for _, col := range params.AllowedSearchCollumns {
			pattern := fmt.Sprintf("%%%s%%", params.Search)
			conditions = append(conditions, sq.Expr(fmt.Sprintf("%s ILIKE ?", col), pattern))
		}
		builder = builder.Where(sq.Or(conditions))
	}

	for _, join := range params.Relations {
		onClause := fmt.Sprintf("%s = %s", join.OnLeft, join.OnRight)
		joinTarget := join.Table
		if alias := join.EffectiveAlias(); alias != getBaseName(join.Table) {
			joinTarget = fmt.Sprintf("%s AS %s", join.Table, alias)
		}
		switch strings.ToUpper(join.JoinType) {
		case "LEFT":
			builder = builder.LeftJoin(fmt.Sprintf("%s ON %s", joinTarget, onClause))
		case "RIGHT":
			builder = builder.RightJoin(fmt.Sprintf("%s ON %s", joinTarget, onClause))
		default:
			builder = builder.Join(fmt.Sprintf("%s ON %s", joinTarget, onClause))
		}
	}
	return builder, nil
}

// FetchDataAndCount выполняет список + счётчик одним набором условий.
func FetchDataAndCount(ctx context.Context, dbPool *pgxpool.Pool, params Params) ([]map[string]interface{}, uint64, error) {
	if params.Table == "" {
		return nil, 0, fmt.Errorf("params.Table cannot be empty")
	}
	if params.Columns == "" {
		return nil, 0, fmt.Errorf("params.Columns cannot be empty")
	}

	builder := sq.Select(params.Columns).From(params.Table).PlaceholderFormat(sq.Dollar)
	builder, err := applyQueryConditions(builder, params)
	if err != nil {
		return nil, 0, fmt.Errorf("applyQueryConditions for data: %w", err)
	}

	if params.OrderBy != "" {
		builder = builder.OrderBy(params.OrderBy)
	}

	if params.WithPg && params.Limit > 0 {
		builder = builder.Limit(params.Limit).Offset(params.Offset)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ToSql for data query: %w", err)
	}

	rows, err := dbPool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db.Query failed for SQL '%s': %w", sqlQuery, err)
	}
	defer rows.Close()

	var resultData []map[string]interface{}
	fieldDescriptions := rows.FieldDescriptions()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, 0, fmt.Errorf("rows.Values: %w", err)
		}

		rowMap := make(map[string]interface{})
		for i, fd := range fieldDescriptions {
			rowMap[string(fd.Name)] = values[i]
		}
		resultData = append(resultData, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows.Err: %w", err)
	}

	var total uint64
	if params.WithPg {
		countBuilderBase := sq.Select("COUNT(*)").From(params.Table).PlaceholderFormat(sq.Dollar)
		countParams := Params{
			Table:                 params.Table,
			Relations:             params.Relations,
			Filter:                params.Filter,
			Where:                 params.Where,
			Search:                params.Search,
			AllowedFilterCollumns: params.AllowedFilterCollumns,
			AllowedSearchCollumns: params.AllowedSearchCollumns,
		}
		countBuilder, errApply := applyQueryConditions(countBuilderBase, countParams)
		if errApply != nil {
			return nil, 0, fmt.Errorf("applyQueryConditions for count: %w", errApply)
		}
		countSQL, countArgs, errToSql := countBuilder.ToSql()
		if errToSql != nil {
			return nil, 0, fmt.Errorf("count ToSql: %w", errToSql)
		}
		if errScan := dbPool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); errScan != nil {
			return nil, 0, fmt.Errorf("count query failed: %w", errScan)
		}
	}

	return resultData, total, nil
}
