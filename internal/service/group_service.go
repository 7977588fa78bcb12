package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/internal/models"
	"github.com/mmynk/payrecord/internal/storage"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	s.logger.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	in, err := validateGroup(req.Msg.Name, req.Msg.Emoji, req.Msg.Members, req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if in.Emoji == "" {
		in.Emoji = models.RandomEmoji()
	}

	group := &models.Group{
		Name:     in.Name,
		Emoji:    in.Emoji,
		Members:  in.Members,
		Currency: in.Currency,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	s.logger.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup updates an existing group. Members still referenced by an
// expense or settlement cannot be removed.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	s.logger.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	in, err := validateGroup(req.Msg.Name, req.Msg.Emoji, req.Msg.Members, req.Msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	existing, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	inUse, err := s.membersInUse(ctx, existing, in.Members)
	if err != nil {
		s.logger.Error("UpdateGroup failed", "group_id", existing.ID, "error", err)
		return nil, storeError(err)
	}
	if len(inUse) > 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("cannot remove members with recorded expenses or settlements: %s", strings.Join(inUse, ", ")))
	}

	group := &models.Group{
		ID:        existing.ID,
		Name:      in.Name,
		Emoji:     in.Emoji,
		Members:   in.Members,
		Currency:  in.Currency,
		CreatedAt: existing.CreatedAt,
	}
	if group.Emoji == "" {
		group.Emoji = existing.Emoji
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		s.logger.Error("UpdateGroup failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// membersInUse returns the members of group missing from keep that appear
// in any expense or settlement, in group order.
func (s *GroupService) membersInUse(ctx context.Context, group *models.Group, keep []string) ([]string, error) {
	kept := make(map[string]bool, len(keep))
	for _, m := range keep {
		kept[m] = true
	}
	var removed []string
	for _, m := range group.Members {
		if !kept[m] {
			removed = append(removed, m)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	var inUse []string
	for _, m := range removed {
		if memberReferenced(m, expenses, settlements) {
			inUse = append(inUse, m)
		}
	}
	return inUse, nil
}

func memberReferenced(name string, expenses []*models.Expense, settlements []*models.Settlement) bool {
	for _, e := range expenses {
		if e.Involves(name) {
			return true
		}
	}
	for _, st := range settlements {
		if st.From == name || st.To == name {
			return true
		}
	}
	return false
}

// DeleteGroup removes a group by ID, with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	s.logger.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}
