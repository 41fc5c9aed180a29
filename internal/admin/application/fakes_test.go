package application_test

import (
	"context"

	"github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

type memorySurveys struct {
	items  map[int]admindomain.SurveyDefinition
	nextID int
}

func newMemorySurveys() *memorySurveys {
	return &memorySurveys{items: map[int]admindomain.SurveyDefinition{}}
}

func (m *memorySurveys) Find(_ context.Context, _ application.SurveyFilter, _ application.Paging) ([]admindomain.SurveyDefinition, error) {
	out := make([]admindomain.SurveyDefinition, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

func (m *memorySurveys) FindByID(_ context.Context, id int) (*admindomain.SurveyDefinition, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	return &s, nil
}

func (m *memorySurveys) Create(_ context.Context, s *admindomain.SurveyDefinition) error {
	m.nextID++
	s.ID = m.nextID
	m.items[s.ID] = *s
	return nil
}

func (m *memorySurveys) Update(_ context.Context, s *admindomain.SurveyDefinition) error {
	if _, ok := m.items[s.ID]; !ok {
		return application.ErrNotFound
	}
	m.items[s.ID] = *s
	return nil
}

type memoryStops struct {
	items map[admindomain.StopID]admindomain.Stop
}

func (m *memoryStops) Find(_ context.Context, _ application.StopFilter, _ application.Paging) ([]admindomain.Stop, error) {
	out := make([]admindomain.Stop, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStops) FindByID(_ context.Context, id string) (*admindomain.Stop, error) {
	s, ok := m.items[admindomain.StopID(id)]
	if !ok {
		return nil, application.ErrNotFound
	}
	return &s, nil
}

func (m *memoryStops) Upsert(_ context.Context, s *admindomain.Stop) error {
	if m.items == nil {
		m.items = map[admindomain.StopID]admindomain.Stop{}
	}
	m.items[s.ID] = *s
	return nil
}
