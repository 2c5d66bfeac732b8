package response

// Response is the envelope of every API reply. Id names the entity the reply
// is about and is chosen by the handler.
type Response struct {
	Id       any       `json:"id"`
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Data     any       `json:"data,omitempty"`
	MetaData *MetaData `json:"metaData,omitempty"`
}

type MetaData struct {
	PageNumber   int `json:"pageNumber"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

func OK(id any, data any) Response {
	return Response{Id: id, Success: true, Data: data}
}

func Paged(data any, meta MetaData) Response {
	return Response{Success: true, Data: data, MetaData: &meta}
}

func Error(id any, msg string) Response {
	return Response{Id: id, Success: false, Message: msg}
}
