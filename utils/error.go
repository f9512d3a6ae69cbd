package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorDuplicateRecord = errors.New("record already exists")
