package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// MinSearchLength is the shortest query Search will act on.
const MinSearchLength = 2

// MemberDirectory owns the member roster: admin CRUD plus the name search
// operators use to pick someone to clock in.
type MemberDirectory struct {
	store store.MemberStore
	now   func() time.Time
}

func NewMemberDirectory(st store.MemberStore) *MemberDirectory {
	return &MemberDirectory{store: st, now: func() time.Time { return time.Now().UTC() }}
}

func (d *MemberDirectory) Get(ctx context.Context, sess types.Session, id string) (types.Member, error) {
	if err := requireAdmin(sess); err != nil {
		return types.Member{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Member{}, ErrInvalidMemberID
	}
	return d.store.GetMember(ctx, id)
}

func (d *MemberDirectory) List(ctx context.Context, sess types.Session) ([]types.Member, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return d.store.ListMembers(ctx)
}

// Search returns members whose name contains query, ignoring case. Queries
// shorter than MinSearchLength match nothing.
func (d *MemberDirectory) Search(ctx context.Context, sess types.Session, query string) ([]types.Member, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return []types.Member{}, nil
	}

	all, err := d.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]types.Member, 0)
	for _, m := range all {
		if strings.Contains(fold.String(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (d *MemberDirectory) Create(ctx context.Context, sess types.Session, in types.MemberInput) (types.Member, error) {
	if err := requireAdmin(sess); err != nil {
		return types.Member{}, err
	}
	in, err := normalizeMember(in)
	if err != nil {
		return types.Member{}, err
	}

	now := d.now()
	m := applyMemberInput(types.Member{ID: uuid.NewString(), CreatedAt: now}, in)
	m.UpdatedAt = now
	if err := d.store.CreateMember(ctx, m); err != nil {
		return types.Member{}, err
	}
	return m, nil
}

func (d *MemberDirectory) Update(ctx context.Context, sess types.Session, id string, in types.MemberInput) (types.Member, error) {
	if err := requireAdmin(sess); err != nil {
		return types.Member{}, err
	}
	in, err := normalizeMember(in)
	if err != nil {
		return types.Member{}, err
	}

	existing, err := d.store.GetMember(ctx, strings.TrimSpace(id))
	if err != nil {
		return types.Member{}, err
	}
	m := applyMemberInput(existing, in)
	m.UpdatedAt = d.now()
	if err := d.store.UpdateMember(ctx, m); err != nil {
		return types.Member{}, err
	}
	return m, nil
}

func (d *MemberDirectory) Delete(ctx context.Context, sess types.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return d.store.DeleteMember(ctx, strings.TrimSpace(id))
}

func normalizeMember(in types.MemberInput) (types.MemberInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Name == "" {
		return in, ErrInvalidMemberName
	}

	interests := make([]string, 0, len(in.Interests))
	for _, tag := range in.Interests {
		if tag = strings.TrimSpace(tag); tag != "" {
			interests = append(interests, tag)
		}
	}
	if len(interests) > types.MaxInterests {
		return in, ErrTooManyInterests
	}
	in.Interests = interests
	return in, nil
}

func applyMemberInput(m types.Member, in types.MemberInput) types.Member {
	m.Name = in.Name
	m.Email = in.Email
	m.Mobile = in.Mobile
	m.Address = strings.TrimSpace(in.Address)
	m.DateOfBirth = in.DateOfBirth
	m.Relationship = strings.TrimSpace(in.Relationship)
	m.Interests = in.Interests
	m.PhotoURL = strings.TrimSpace(in.PhotoURL)
	return m
}
