package user

type CreateUserRequest struct {
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email,omitempty"`
	WeightKg    float64 `json:"weightKg"`
	Timezone    string  `json:"timezone,omitempty"`
}

type UpdateWeightRequest struct {
	WeightKg float64 `json:"weightKg"`
}

type AddFriendRequest struct {
	FriendCode string `json:"friendCode"`
}

type AddFriendResponse struct {
	Friend         *User `json:"friend"`
	AlreadyFriends bool  `json:"alreadyFriends"`
}

// FriendshipIssue is a one-sided relation: UserID lists FriendID but not vice versa.
type FriendshipIssue struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
	Missing  bool   `json:"missing"` // friend profile no longer exists
}
