package api

type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji,omitempty"`
	Members  []string `json:"members"`
	Currency string   `json:"currency,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID  string   `json:"group_id"`
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji,omitempty"`
	Members  []string `json:"members"`
	Currency string   `json:"currency,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}
