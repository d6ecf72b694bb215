package services

// Services defined in this package:
// - StudentService: validates and persists student result records
// - FormService: keeps open student forms and drives them through change, submit and cancel
