package models

import (
	"errors"
	"fmt"
)

var ErrPermDenied = errors.New("Missing permissions to execute action")

type Perm string
type Perms map[Perm]struct{}

func NewPerms(perms ...Perm) Perms {
	ps := Perms{}
	for _, p := range perms {
		ps[p] = struct{}{}
	}
	return ps
}

const (
	PermCreateCommunity Perm = "create_community"
	PermReadCommunity   Perm = "read_community"
	PermCreatePost      Perm = "create_post"
	PermDeletePost      Perm = "delete_post"
	PermCreateComment   Perm = "create_comment"
	PermDeleteComment   Perm = "delete_comment"
	PermExpirePending   Perm = "expire_pending"
	PermSweepComments   Perm = "sweep_comments"
)

var PermsMember = NewPerms(
	PermCreateCommunity,
	PermReadCommunity,
	PermCreatePost,
	PermCreateComment,
)

var PermsModerator = PermsMember.Union(NewPerms(
	PermDeletePost,
	PermDeleteComment,
	PermExpirePending,
))

var PermsAdmin = PermsModerator.Union(NewPerms(
	PermSweepComments,
))

const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// RolePerms maps a user's global role to its capability set. Unknown roles
// get member capabilities.
func RolePerms(role string) Perms {
	switch role {
	case RoleAdmin:
		return PermsAdmin
	case RoleModerator:
		return PermsModerator
	default:
		return PermsMember
	}
}

type ErrMissingPerms struct {
	Perms []Perm
}

func (mp ErrMissingPerms) Error() string {
	return fmt.Sprintf("missing permission %s", mp.Perms)
}

func (ps Perms) Require(reqPerms ...Perm) error {
	for _, p := range reqPerms {
		if _, ok := ps[p]; !ok {
			return ErrMissingPerms{[]Perm{p}}
		}
	}
	return nil
}

func (ps Perms) Check(reqPerms ...Perm) bool {
	return ps.Require(reqPerms...) == nil
}

func (ps Perms) Intersect(ps2 Perms) Perms {
	res := Perms{}
	for p := range ps {
		if _, ok := ps2[p]; ok {
			res[p] = struct{}{}
		}
	}
	return res
}

func (ps Perms) Union(ps2 Perms) Perms {
	res := Perms{}
	for p := range ps {
		res[p] = struct{}{}
	}
	for p := range ps2 {
		res[p] = struct{}{}
	}
	return res
}
