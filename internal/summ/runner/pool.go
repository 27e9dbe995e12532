package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/panjf2000/ants/v2"
)

type evaluateParam struct {
	idx     int
	ctx     context.Context
	cancel  context.CancelFunc
	target  *dataset.Instance
	gold    *dataset.Instance
	run     *run
	records []*eval.InstanceRecord
	errs    []error
	wg      *sync.WaitGroup
}

func (p *evaluateParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.cancel = nil
	p.target = nil
	p.gold = nil
	p.run = nil
	p.records = nil
	p.errs = nil
	p.wg = nil
}

var evaluateParamPool = &sync.Pool{
	New: func() any { return new(evaluateParam) },
}

func createEvaluatePool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*evaluateParam)
		if !ok {
			panic("evaluate pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			evaluateParamPool.Put(param)
		}()
		rec, err := param.run.evaluateOne(param.ctx, param.target, param.gold)
		param.records[param.idx], param.errs[param.idx] = rec, err
		if err != nil {
			param.cancel()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create evaluate pool: %w", err)
	}
	return pool, nil
}
