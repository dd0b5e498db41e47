package errors

import "errors"

// ErrConflict 唯一约束冲突：记录已存在
// Repository 层捕获 PostgreSQL 23505 后包装为本错误，
// Service 层通过 errors.Is 识别并转换为对应业务错误
var ErrConflict = errors.New("记录已存在")

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
