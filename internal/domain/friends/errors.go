package friends

import "errors"

var (
	ErrSelfFriendship  = errors.New("cannot befriend yourself")
	ErrAlreadyFriends  = errors.New("friendship already exists")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrNotAddressee    = errors.New("only the addressee may respond to a request")
)
