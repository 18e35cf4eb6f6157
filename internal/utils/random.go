package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/smenuberu/dashboard/internal/domain"
)

var cities = map[string][]string{
	"Москва":          {"Тверская ул.", "Профсоюзная ул.", "Варшавское ш.", "Ленинградский пр-т", "ул. Складочная"},
	"Санкт-Петербург": {"Невский пр-т", "Московский пр-т", "Кольцевая ул.", "ул. Софийская"},
	"Казань":          {"ул. Баумана", "пр-т Победы", "ул. Тэцевская"},
	"Екатеринбург":    {"ул. Малышева", "ул. Монтёрская", "Сибирский тракт"},
}

var objectNames = map[domain.ObjectType][]string{
	domain.ObjectTypeProduction: {"Цех упаковки", "Хлебозавод", "Фабрика-кухня"},
	domain.ObjectTypeWarehouse:  {"Склад", "Распределительный центр", "Фулфилмент"},
	domain.ObjectTypeHub:        {"Хаб доставки", "Даркстор"},
	domain.ObjectTypeSort:       {"Сортировочный центр", "Пункт сортировки"},
	domain.ObjectTypeOther:      {"Кафе", "Торговый зал"},
}

var shiftTitles = map[domain.SlotType]string{
	domain.SlotTypeDriver:  "Водитель-курьер",
	domain.SlotTypePicker:  "Сборщик заказов",
	domain.SlotTypeLoader:  "Грузчик",
	domain.SlotTypeCook:    "Повар на раздачу",
	domain.SlotTypeWaiter:  "Официант",
	domain.SlotTypeCleaner: "Уборка помещений",
	domain.SlotTypeOther:   "Разнорабочий",
}

var shiftHours = [][2]string{
	{"08:00", "16:00"},
	{"09:00", "18:00"},
	{"12:00", "20:00"},
	{"20:00", "08:00"},
}

func pick[T any](s []T) T {
	return s[rand.Intn(len(s))]
}

// GenerateRandomObject returns demo base fields of an object.
func GenerateRandomObject() domain.ObjectInput {
	cityNames := make([]string, 0, len(cities))
	for c := range cities {
		cityNames = append(cityNames, c)
	}
	city := pick(cityNames)

	typ := pick(domain.ObjectTypes)
	return domain.ObjectInput{
		Name:    fmt.Sprintf("%s №%d", pick(objectNames[typ]), rand.Intn(90)+10),
		City:    city,
		Address: fmt.Sprintf("%s, %d", pick(cities[city]), rand.Intn(150)+1),
		Type:    typ,
	}
}

// GenerateRandomShift returns a demo slot for objectID. Date is left empty.
func GenerateRandomShift(objectID string) domain.SlotInput {
	typ := pick(domain.SlotTypes)
	hours := pick(shiftHours)
	return domain.SlotInput{
		ObjectID:  objectID,
		Title:     shiftTitles[typ],
		StartTime: hours[0],
		EndTime:   hours[1],
		Pay:       (rand.Intn(40) + 20) * 100,
		Type:      typ,
		Hot:       rand.Intn(5) == 0,
	}
}

// GenerateDates returns n consecutive dates starting from the day after from.
func GenerateDates(from time.Time, n int) []string {
	dates := make([]string, n)
	for i := range dates {
		dates[i] = from.AddDate(0, 0, i+1).Format(time.DateOnly)
	}
	return dates
}
