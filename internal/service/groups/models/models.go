package models

import (
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Request модели

// CreateGroupRequest запрос на создание группы столов
type CreateGroupRequest struct {
	UserID        int64   `json:"-"`
	SeatingTypeID int64   `json:"-"`
	TableIDs      []int64 `json:"tableIds"`
	Name          string  `json:"name"`
	MinPax        int     `json:"minPax"`
	MaxPax        int     `json:"maxPax"`
}

// UpdateGroupRequest запрос на изменение скалярных полей группы
type UpdateGroupRequest struct {
	UserID   int64  `json:"-"`
	GroupID  int64  `json:"-"`
	Name     string `json:"name"`
	MinPax   int    `json:"minPax"`
	MaxPax   int    `json:"maxPax"`
	IsActive bool   `json:"isActive"`
}

// AddPossibilityRequest запрос на ручное добавление комбинации
type AddPossibilityRequest struct {
	UserID   int64   `json:"-"`
	GroupID  int64   `json:"-"`
	TableIDs []int64 `json:"tableIds"`
}

// Response модели

// PossibilityResponse комбинация столов группы
type PossibilityResponse struct {
	ID       int64   `json:"id"`
	Index    int     `json:"index"`
	TableIDs []int64 `json:"tableIds"`
}

// GroupResponse группа столов со всеми комбинациями
type GroupResponse struct {
	ID            int64                 `json:"id"`
	SeatingTypeID int64                 `json:"seatingTypeId"`
	Name          string                `json:"name"`
	MinPax        int                   `json:"minPax"`
	MaxPax        int                   `json:"maxPax"`
	IsActive      bool                  `json:"isActive"`
	Sequence      []int64               `json:"sequence"`
	Possibilities []PossibilityResponse `json:"possibilities"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// GroupListResponse список групп типа рассадки
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
	Total  int             `json:"total"`
}

// FromDomainGroup конвертирует доменную группу в ответ
func FromDomainGroup(g *domain.GroupTable) *GroupResponse {
	resp := &GroupResponse{
		ID:            g.ID,
		SeatingTypeID: g.OutletSeatingTypeID,
		Name:          g.Name,
		MinPax:        g.MinPax,
		MaxPax:        g.MaxPax,
		IsActive:      g.IsActive,
		Sequence:      append([]int64{}, g.Sequence...),
		Possibilities: make([]PossibilityResponse, 0, len(g.Possibilities)),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}

	for _, p := range g.Possibilities {
		resp.Possibilities = append(resp.Possibilities, PossibilityResponse{
			ID:       p.ID,
			Index:    p.Index,
			TableIDs: append([]int64{}, p.TableIDs...),
		})
	}

	return resp
}

// FromDomainGroupList конвертирует список групп
func FromDomainGroupList(groups []*domain.GroupTable) *GroupListResponse {
	resp := &GroupListResponse{
		Groups: make([]GroupResponse, 0, len(groups)),
		Total:  len(groups),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, *FromDomainGroup(g))
	}
	return resp
}
