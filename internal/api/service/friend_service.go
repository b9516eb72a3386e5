package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/realtime"
)

const unknownUserEmail = "Unknown user"

var (
	ErrDuplicateRequest   = errors.New("friend request already exists for this pair")
	ErrSelfRequest        = errors.New("cannot send a friend request to yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrRequestsDisabled   = errors.New("user does not accept friend requests")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrNotParticipant     = errors.New("caller is not a party of this friendship")
	ErrNotRequestTarget   = errors.New("only the request target can accept")
	ErrNotPending         = errors.New("friend request is not pending")
	ErrNotFriends         = errors.New("users are not friends")
	ErrActivityHidden     = errors.New("friend's activity is not visible")
)

// FriendEdge is a friendship row enriched with both parties' emails. Emails
// fall back to "Unknown user" when the counterpart row cannot be resolved,
// so callers never render an empty string.
type FriendEdge struct {
	ID             int64                   `json:"id"`
	FriendID       string                  `json:"friend_id"`
	FriendEmail    string                  `json:"friend_email"`
	RequesterID    string                  `json:"requester_id"`
	RequesterEmail string                  `json:"requesting_email"`
	Status         models.FriendshipStatus `json:"status"`
	Incoming       bool                    `json:"incoming"`
}

// UserMatch is one row of an email search result.
type UserMatch struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type FriendService interface {
	SearchUsersByEmail(ctx context.Context, callerID, query string) ([]UserMatch, error)
	SendFriendRequest(ctx context.Context, callerID, targetID string) (*models.Friendship, error)
	GetFriends(ctx context.Context, callerID string) ([]FriendEdge, error)
	GetAcceptedFriends(ctx context.Context, callerID string) ([]FriendEdge, error)
	AcceptFriendRequest(ctx context.Context, callerID string, friendshipID int64) error
	// RemoveFriend deletes the edge and its dependent notifications,
	// returning the deleted notification ids so callers can reconcile a
	// cached unread count without a re-fetch. Also used for reject.
	RemoveFriend(ctx context.Context, callerID string, friendshipID int64) ([]int64, error)
	RespondToRequest(ctx context.Context, callerID string, friendshipID int64, accept bool) ([]int64, error)
	GetFriendCollection(ctx context.Context, callerID, friendID string, kind models.MediaKind) ([]models.MediaItem, error)
}

type friendService struct {
	friendRepo   repository.FriendshipRepository
	userRepo     repository.UserRepository
	notifRepo    repository.NotificationRepository
	privacyRepo  repository.PrivacyRepository
	mediaRepo    repository.MediaRepository
	achievements AchievementEvaluator
	publisher    realtime.Publisher
}

func NewFriendService(
	friendRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	privacyRepo repository.PrivacyRepository,
	mediaRepo repository.MediaRepository,
	achievements AchievementEvaluator,
	publisher realtime.Publisher,
) FriendService {
	return &friendService{
		friendRepo:   friendRepo,
		userRepo:     userRepo,
		notifRepo:    notifRepo,
		privacyRepo:  privacyRepo,
		mediaRepo:    mediaRepo,
		achievements: achievements,
		publisher:    publisher,
	}
}

func (s *friendService) SearchUsersByEmail(ctx context.Context, callerID, query string) ([]UserMatch, error) {
	query = strings.TrimSpace(query)
	// An empty query is an empty result, not an error.
	if query == "" {
		return []UserMatch{}, nil
	}

	users, err := s.userRepo.SearchByEmail(ctx, query, callerID, 20)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	// Drop users who turned friend requests off. Users with no settings
	// row get the defaults, which allow requests.
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	settings, err := s.privacyRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	disallowed := make(map[string]bool)
	for _, p := range settings {
		if !p.AllowFriendRequests {
			disallowed[p.UserID] = true
		}
	}

	matches := make([]UserMatch, 0, len(users))
	for _, u := range users {
		if disallowed[u.ID] {
			continue
		}
		matches = append(matches, UserMatch{ID: u.ID, Email: u.Email, Username: u.Username})
	}
	return matches, nil
}

func (s *friendService) SendFriendRequest(ctx context.Context, callerID, targetID string) (*models.Friendship, error) {
	if callerID == targetID {
		return nil, ErrSelfRequest
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find target user: %w", err)
	}

	targetSettings, err := s.privacyRepo.GetOrCreate(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !targetSettings.AllowFriendRequests {
		return nil, ErrRequestsDisabled
	}

	// Fast path: an existing edge in either direction is a duplicate. The
	// unique pair index below is what makes this race-safe.
	if _, err := s.friendRepo.FindBetween(ctx, callerID, targetID); err == nil {
		return nil, ErrDuplicateRequest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing friendship: %w", err)
	}

	f := &models.Friendship{
		UserLoID:    callerID,
		UserHiID:    targetID,
		RequesterID: callerID,
		Status:      models.FriendshipPending,
	}
	if err := s.friendRepo.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicateFriendship) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	caller, err := s.userRepo.FindByID(callerID)
	senderEmail := unknownUserEmail
	if err == nil {
		senderEmail = caller.Email
	}
	s.notify(ctx, &models.Notification{
		UserID:    target.ID,
		Type:      models.NotificationFriendRequest,
		RelatedID: &f.ID,
		Message:   fmt.Sprintf("%s sent you a friend request", senderEmail),
	})

	return f, nil
}

func (s *friendService) GetFriends(ctx context.Context, callerID string) ([]FriendEdge, error) {
	edges, err := s.friendRepo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, callerID, edges)
}

func (s *friendService) GetAcceptedFriends(ctx context.Context, callerID string) ([]FriendEdge, error) {
	edges, err := s.friendRepo.ListByUserWithStatus(ctx, callerID, models.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, callerID, edges)
}

// enrich attaches emails to friendship rows with one batched user lookup:
// collect every distinct id across the result set, fetch once, map back.
func (s *friendService) enrich(ctx context.Context, callerID string, edges []models.Friendship) ([]FriendEdge, error) {
	idSet := make(map[string]struct{})
	for _, e := range edges {
		idSet[e.UserLoID] = struct{}{}
		idSet[e.UserHiID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("enrich friendships: %w", err)
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	emailOf := func(id string) string {
		if email, ok := emails[id]; ok && email != "" {
			return email
		}
		return unknownUserEmail
	}

	result := make([]FriendEdge, 0, len(edges))
	for _, e := range edges {
		friendID := e.OtherParty(callerID)
		result = append(result, FriendEdge{
			ID:             e.ID,
			FriendID:       friendID,
			FriendEmail:    emailOf(friendID),
			RequesterID:    e.RequesterID,
			RequesterEmail: emailOf(e.RequesterID),
			Status:         e.Status,
			Incoming:       e.RequesterID != callerID,
		})
	}
	return result, nil
}

func (s *friendService) AcceptFriendRequest(ctx context.Context, callerID string, friendshipID int64) error {
	f, err := s.friendRepo.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendshipNotFound
		}
		return err
	}
	if !f.Involves(callerID) {
		return ErrNotParticipant
	}
	if f.Status != models.FriendshipPending {
		return ErrNotPending
	}
	// Only the addressee may accept; the requester accepting their own
	// request would let one side forge a friendship.
	if f.AddresseeID() != callerID {
		return ErrNotRequestTarget
	}

	if err := s.friendRepo.UpdateStatus(ctx, friendshipID, models.FriendshipAccepted); err != nil {
		return err
	}

	accepter, err := s.userRepo.FindByID(callerID)
	accepterEmail := unknownUserEmail
	if err == nil {
		accepterEmail = accepter.Email
	}
	s.notify(ctx, &models.Notification{
		UserID:    f.RequesterID,
		Type:      models.NotificationFriendAccepted,
		RelatedID: &f.ID,
		Message:   fmt.Sprintf("%s accepted your friend request", accepterEmail),
	})

	if s.achievements != nil {
		s.achievements.CheckSocial(ctx, f.UserLoID)
		s.achievements.CheckSocial(ctx, f.UserHiID)
	}
	return nil
}

func (s *friendService) RemoveFriend(ctx context.Context, callerID string, friendshipID int64) ([]int64, error) {
	f, err := s.friendRepo.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	if !f.Involves(callerID) {
		return nil, ErrNotParticipant
	}

	// Read the parties before deleting the edge: once it is gone, the
	// notifications' related_id has no way to re-derive the owning pair.
	partyA, partyB := f.UserLoID, f.UserHiID

	if err := s.friendRepo.Delete(ctx, friendshipID); err != nil {
		return nil, fmt.Errorf("delete friendship: %w", err)
	}

	deleted, err := s.notifRepo.DeleteByRelated(ctx, friendshipID,
		[]string{models.NotificationFriendRequest, models.NotificationFriendAccepted})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: partyA})
	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: partyB})
	return deleted, nil
}

func (s *friendService) RespondToRequest(ctx context.Context, callerID string, friendshipID int64, accept bool) ([]int64, error) {
	if accept {
		return nil, s.AcceptFriendRequest(ctx, callerID, friendshipID)
	}
	return s.RemoveFriend(ctx, callerID, friendshipID)
}

func (s *friendService) GetFriendCollection(ctx context.Context, callerID, friendID string, kind models.MediaKind) ([]models.MediaItem, error) {
	f, err := s.friendRepo.FindBetween(ctx, callerID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFriends
		}
		return nil, err
	}
	if f.Status != models.FriendshipAccepted {
		return nil, ErrNotFriends
	}

	settings, err := s.privacyRepo.GetOrCreate(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if settings.ProfileVisibility == models.VisibilityPrivate || !settings.ShowActivity {
		return nil, ErrActivityHidden
	}

	return s.mediaRepo.List(ctx, friendID, kind, repository.MediaFilters{})
}

// notify inserts a notification and pushes the invalidation event. Failures
// are deliberately swallowed: the friendship state change already happened
// and the notification is best-effort.
func (s *friendService) notify(ctx context.Context, n *models.Notification) {
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return
	}
	s.publisher.Publish(realtime.Event{Type: realtime.EventNotificationsChanged, UserID: n.UserID})
}
