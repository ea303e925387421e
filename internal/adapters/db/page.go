package db

import "github.com/just-nibble/repo-quality/internal/adapters/http/dtos"

func getPaginationInfo(query dtos.APIPagingDto) (dtos.APIPagingDto, int) {
	var offset int
	// load defaults
	if query.Page <= 0 {
		query.Page = dtos.DefaultHistoryPage
	}
	if query.Limit <= 0 {
		query.Limit = dtos.DefaultHistoryLimit
	}

	if query.Page > 1 {
		offset = query.Limit * (query.Page - 1)
	}
	return query, offset
}

func getPagingInfo(query dtos.APIPagingDto, total int64, count int) dtos.PagingInfo {
	return dtos.PagingInfo{
		TotalCount:  total,
		Count:       count,
		HasNextPage: int64(query.Page*query.Limit) < total,
		Page:        query.Page,
	}
}
