package protocols

import "context"

type IdGenerator interface {
	NextId(ctx context.Context) (string, error)
}
