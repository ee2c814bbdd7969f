package store

import "errors"

var ErrInvalidChatId = errors.New("invalid chat id")
