package services

import "fmt"

// Future 挂起结果；Wait 阻塞到任务完成
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait blocks until the submitted operation finishes and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// Pool 有界工作池；异步变体只是把同一个同步实现丢进池里
// 两条路径共享代码，行为不可能分叉。
type Pool struct {
	slots chan struct{}
}

// NewPool 创建容量为 size 的工作池
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Submit 在池里执行 fn 并立刻返回 future
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		p.slots <- struct{}{}
		defer func() {
			<-p.slots
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async task panicked: %v", r)
			}
			close(f.done)
		}()
		f.val, f.err = fn()
	}()
	return f
}
