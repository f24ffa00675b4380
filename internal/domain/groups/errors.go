package groups

import "errors"

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotMember      = errors.New("not a member of this group")
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidInput   = errors.New("invalid input")
)
