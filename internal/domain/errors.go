package domain

import "errors"

var ErrLoginTaken = errors.New("username already taken")
