package router

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/queue"
	"github.com/iliyamo/realestate-listing/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]model.User
	err    error
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u model.User) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return 0, repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = u
	return u.ID, nil
}

type memHomes struct {
	mu     sync.Mutex
	nextID uint64
	homes  map[uint64]model.Home
	images map[uint64][]string
}

func (m *memHomes) List(_ context.Context, f repository.HomeFilter) ([]repository.HomeListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.HomeListItem
	for id := uint64(1); id <= m.nextID; id++ {
		h, ok := m.homes[id]
		if !ok || (f.City != "" && h.City != f.City) {
			continue
		}
		item := repository.HomeListItem{Home: h}
		if imgs := m.images[id]; len(imgs) > 0 {
			item.Image = imgs[0]
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memHomes) GetByID(_ context.Context, id uint64) (model.Home, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.homes[id]
	if !ok {
		return model.Home{}, repository.ErrHomeNotFound
	}
	return h, nil
}

func (m *memHomes) Images(_ context.Context, id uint64) ([]model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Image
	for _, u := range m.images[id] {
		out = append(out, model.Image{URL: u, HomeID: id})
	}
	return out, nil
}

func (m *memHomes) Create(_ context.Context, h *model.Home, urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	h.ID = m.nextID
	m.homes[h.ID] = *h
	m.images[h.ID] = urls
	return nil
}

func (m *memHomes) Update(_ context.Context, id uint64, u repository.HomeUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.homes[id]
	if !ok {
		return repository.ErrHomeNotFound
	}
	if u.Price != nil {
		h.Price = *u.Price
	}
	if u.City != nil {
		h.City = *u.City
	}
	m.homes[id] = h
	return nil
}

func (m *memHomes) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.homes[id]; !ok {
		return repository.ErrHomeNotFound
	}
	delete(m.homes, id)
	delete(m.images, id)
	return nil
}

func (m *memHomes) FindOwner(_ context.Context, id uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.homes[id]
	if !ok {
		return 0, repository.ErrHomeNotFound
	}
	return h.RealtorID, nil
}

type memMessages struct {
	mu    sync.Mutex
	users *memUsers
	rows  []model.Message
}

func (m *memMessages) Create(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uint64(len(m.rows) + 1)
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memMessages) ListByHome(ctx context.Context, homeID uint64) ([]model.MessageWithBuyer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MessageWithBuyer
	for _, r := range m.rows {
		if r.HomeID != homeID {
			continue
		}
		b, _ := m.users.GetByID(ctx, r.BuyerID)
		out = append(out, model.MessageWithBuyer{Message: r, BuyerName: b.Name, BuyerEmail: b.Email, BuyerPhone: b.Phone})
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.InquiryCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishInquiryCreated(_ context.Context, ev queue.InquiryCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
