package models

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/pkg/types"
)

// DayHoursDTO окно доступности одного дня недели
type DayHoursDTO struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open,omitempty"`  // "09:00"
	Close   string `json:"close,omitempty"` // "18:00"
}

// HolidayDTO праздничная дата тенанта
type HolidayDTO struct {
	Date string `json:"date"` // "2026-12-25"
	Name string `json:"name,omitempty"`
}

// UpdateCalendarRequest запрос на полную замену календаря тенанта
type UpdateCalendarRequest struct {
	Timezone         string       `json:"timezone"`
	BlockHolidays    bool         `json:"blockHolidays"`
	Monday           DayHoursDTO  `json:"monday"`
	Tuesday          DayHoursDTO  `json:"tuesday"`
	Wednesday        DayHoursDTO  `json:"wednesday"`
	Thursday         DayHoursDTO  `json:"thursday"`
	Friday           DayHoursDTO  `json:"friday"`
	Saturday         DayHoursDTO  `json:"saturday"`
	Sunday           DayHoursDTO  `json:"sunday"`
	SaturdayOverride *DayHoursDTO `json:"saturdayOverride,omitempty"`
	SundayOverride   *DayHoursDTO `json:"sundayOverride,omitempty"`
	Holidays         []HolidayDTO `json:"holidays"`
}

// CalendarResponse ответ с календарём тенанта
type CalendarResponse struct {
	TenantID         int64        `json:"tenantId"`
	Timezone         string       `json:"timezone"`
	BlockHolidays    bool         `json:"blockHolidays"`
	Monday           DayHoursDTO  `json:"monday"`
	Tuesday          DayHoursDTO  `json:"tuesday"`
	Wednesday        DayHoursDTO  `json:"wednesday"`
	Thursday         DayHoursDTO  `json:"thursday"`
	Friday           DayHoursDTO  `json:"friday"`
	Saturday         DayHoursDTO  `json:"saturday"`
	Sunday           DayHoursDTO  `json:"sunday"`
	SaturdayOverride *DayHoursDTO `json:"saturdayOverride,omitempty"`
	SundayOverride   *DayHoursDTO `json:"sundayOverride,omitempty"`
	Holidays         []HolidayDTO `json:"holidays"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Методы конвертации

// ToDomainDay конвертирует DTO дня в domain модель
func (d DayHoursDTO) ToDomainDay() domain.DayHours {
	return domain.DayHours{
		Enabled: d.Enabled,
		Open:    types.TimeString(d.Open),
		Close:   types.TimeString(d.Close),
	}
}

// FromDomainDay конвертирует domain модель дня в DTO
func FromDomainDay(d domain.DayHours) DayHoursDTO {
	return DayHoursDTO{
		Enabled: d.Enabled,
		Open:    d.Open.String(),
		Close:   d.Close.String(),
	}
}

// ToDomainHours конвертирует запрос в domain модель календаря
func (r *UpdateCalendarRequest) ToDomainHours(tenantID int64) *domain.BusinessHours {
	hours := &domain.BusinessHours{
		TenantID:      tenantID,
		Timezone:      r.Timezone,
		BlockHolidays: r.BlockHolidays,
	}

	hours.Days[time.Monday] = r.Monday.ToDomainDay()
	hours.Days[time.Tuesday] = r.Tuesday.ToDomainDay()
	hours.Days[time.Wednesday] = r.Wednesday.ToDomainDay()
	hours.Days[time.Thursday] = r.Thursday.ToDomainDay()
	hours.Days[time.Friday] = r.Friday.ToDomainDay()
	hours.Days[time.Saturday] = r.Saturday.ToDomainDay()
	hours.Days[time.Sunday] = r.Sunday.ToDomainDay()

	if r.SaturdayOverride != nil {
		day := r.SaturdayOverride.ToDomainDay()
		hours.SaturdayOverride = &day
	}
	if r.SundayOverride != nil {
		day := r.SundayOverride.ToDomainDay()
		hours.SundayOverride = &day
	}

	return hours
}

// ToDomainHolidays конвертирует праздники запроса в domain модели
func (r *UpdateCalendarRequest) ToDomainHolidays(tenantID int64, loc *time.Location) ([]domain.Holiday, error) {
	holidays := make([]domain.Holiday, 0, len(r.Holidays))
	for _, h := range r.Holidays {
		date, err := time.ParseInLocation(domain.DateFormat, h.Date, loc)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, domain.Holiday{
			TenantID: tenantID,
			Date:     date,
			Name:     h.Name,
		})
	}
	return holidays, nil
}

// FromDomainCalendar конвертирует domain модели в DTO ответа
func FromDomainCalendar(hours *domain.BusinessHours, holidays []domain.Holiday) *CalendarResponse {
	resp := &CalendarResponse{
		TenantID:      hours.TenantID,
		Timezone:      hours.Timezone,
		BlockHolidays: hours.BlockHolidays,
		Monday:        FromDomainDay(hours.Days[time.Monday]),
		Tuesday:       FromDomainDay(hours.Days[time.Tuesday]),
		Wednesday:     FromDomainDay(hours.Days[time.Wednesday]),
		Thursday:      FromDomainDay(hours.Days[time.Thursday]),
		Friday:        FromDomainDay(hours.Days[time.Friday]),
		Saturday:      FromDomainDay(hours.Days[time.Saturday]),
		Sunday:        FromDomainDay(hours.Days[time.Sunday]),
		Holidays:      make([]HolidayDTO, 0, len(holidays)),
		UpdatedAt:     hours.UpdatedAt,
	}

	if hours.SaturdayOverride != nil {
		day := FromDomainDay(*hours.SaturdayOverride)
		resp.SaturdayOverride = &day
	}
	if hours.SundayOverride != nil {
		day := FromDomainDay(*hours.SundayOverride)
		resp.SundayOverride = &day
	}

	for _, h := range holidays {
		resp.Holidays = append(resp.Holidays, HolidayDTO{
			Date: h.Date.Format(domain.DateFormat),
			Name: h.Name,
		})
	}

	return resp
}
