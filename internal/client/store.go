package client

import (
	"encoding/json"
	"errors"
	"os"
	"slices"
	"sync"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Session данные авторизованного покупателя.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Snapshot неизменяемый срез состояния витрины для подписчиков и персистенции.
type Snapshot struct {
	Session *Session        `json:"session"`
	Cart    []int64         `json:"cart"`
	Owned   []int64         `json:"owned"`
	History []*models.Order `json:"history"`
}

// Store хранит состояние витрины: сессию, корзину, купленные курсы
// и историю покупок. Все методы безопасны для конкурентного вызова.
type Store struct {
	mu          sync.Mutex
	session     *Session
	cart        []int64
	owned       []int64
	history     []*models.Order
	subscribers []func(Snapshot)
}

// NewStore создает пустой Store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe регистрирует подписчика, вызываемого при каждом изменении состояния.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// snapshotLocked собирает снимок; вызывается под мьютексом.
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Session: s.session,
		Cart:    slices.Clone(s.cart),
		Owned:   slices.Clone(s.owned),
		History: slices.Clone(s.history),
	}
}

// notifyLocked рассылает снимок подписчикам; вызывается под мьютексом.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// Snapshot возвращает текущий снимок состояния.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetSession сохраняет сессию и купленные курсы пользователя.
func (s *Store) SetSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	if session != nil && session.User != nil {
		s.owned = slices.Clone(session.User.PurchasedCourses)
	} else {
		s.owned = nil
		s.history = nil
	}
	s.notifyLocked()
}

// AddToCart добавляет курс в корзину. Повторное добавление и уже купленный
// курс — no-op, возвращается false.
func (s *Store) AddToCart(courseID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.cart, courseID) || slices.Contains(s.owned, courseID) {
		return false
	}
	s.cart = append(s.cart, courseID)
	s.notifyLocked()
	return true
}

// RemoveFromCart убирает курс из корзины. Отсутствующий курс — no-op.
func (s *Store) RemoveFromCart(courseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.cart, courseID)
	if idx < 0 {
		return
	}
	s.cart = slices.Delete(s.cart, idx, idx+1)
	s.notifyLocked()
}

// Save сохраняет состояние витрины в JSON-файл.
func (s *Store) Save(path string) error {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load восстанавливает состояние витрины из JSON-файла.
// Отсутствующий файл оставляет состояние пустым.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = snap.Session
	s.cart = snap.Cart
	s.owned = snap.Owned
	s.history = snap.History
	s.notifyLocked()
	return nil
}
