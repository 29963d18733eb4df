package mapper

import "gorm.io/datatypes"

func toJSONPtr[T any](v *T) *datatypes.JSONType[T] {
	if v == nil {
		return nil
	}
	j := datatypes.NewJSONType(*v)
	return &j
}

func fromJSONPtr[T any](j *datatypes.JSONType[T]) *T {
	if j == nil {
		return nil
	}
	d := j.Data()
	return &d
}
