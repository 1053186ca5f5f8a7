// Package fuzztests houses Go fuzz harnesses for the contract pipeline
// (source -> lexer -> parser -> desugarer). They guard against panics,
// hangs and span corruption on arbitrary contract text and unit files.
//
// Назначение: прогонять произвольные байты через лексер, парсер и
// driver.DesugarBytes и проверять инварианты результата.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
