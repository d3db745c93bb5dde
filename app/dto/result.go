package dto

import "github.com/mzdehbashi-github/ableton-challenge/app/entity"

type LoginResult struct {
	User  *entity.User
	Token string
}
