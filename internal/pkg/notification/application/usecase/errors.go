package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use case.
var ErrPersistence = fmt.Errorf("notification use case persistence error")
