package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomWorker 生成一个随机助理的姓名和邮箱
func GenerateRandomWorker(emailDomainName string) (string, string) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	return fullName, username + "@" + emailDomainName
}

// Initials 网格中显示的姓名缩写，中文取拼音首字母，其他取每个单词的首字母
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	args := pinyin.NewArgs()
	args.Style = pinyin.FirstLetter
	if initials := pinyin.LazyPinyin(name, args); len(initials) > 0 {
		return strings.ToUpper(strings.Join(initials, ""))
	}

	var b strings.Builder
	for _, word := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(word)[0])))
	}
	return b.String()
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[rand.Intn(len(letters))]
		} else {
			randomID[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(randomID)
}

var locationNames = []string{"图书馆", "东校区机房", "南校区机房", "教学楼服务台", "实验中心"}

// GenerateRandomLocationName 地点名加上随机后缀避免重名
func GenerateRandomLocationName() string {
	return locationNames[rand.Intn(len(locationNames))] + "-" + GenerateRandomID(0, 3)
}

// StandardWeekTimeSlots 周一到周五每天 09:00 到 17:00，每两小时一个时间段
func StandardWeekTimeSlots() []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0, 20)
	for day := int32(0); day < 5; day++ {
		for hour := 9; hour < 17; hour += 2 {
			slots = append(slots, domain.TimeSlot{
				DayOfWeek: day,
				StartTime: fmt.Sprintf("%02d:00:00", hour),
				EndTime:   fmt.Sprintf("%02d:00:00", hour+2),
			})
		}
	}
	return slots
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset[T any](arr []T) []T {
	if len(arr) == 0 {
		return []T{}
	}

	arrCopy := append([]T{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

// GenerateRandomAssignments 为每个时间段随机挑选地点和若干助理，同一个助理在同一个时间段最多出现一次
func GenerateRandomAssignments(weekStart string, workers []domain.User, locations []domain.Location, slots []domain.TimeSlot, maxPerShift int) []domain.CreateAssignmentRequest {
	requests := []domain.CreateAssignmentRequest{}
	if len(workers) == 0 || len(locations) == 0 || maxPerShift <= 0 {
		return requests
	}

	for _, slot := range slots {
		location := locations[rand.Intn(len(locations))]
		chosen := GenerateRandomSubset(workers)
		if len(chosen) > maxPerShift {
			chosen = chosen[:maxPerShift]
		}
		for _, worker := range chosen {
			requests = append(requests, domain.CreateAssignmentRequest{
				UserID:        worker.ID,
				TimeSlotID:    slot.ID,
				LocationID:    location.ID,
				WeekStartDate: weekStart,
			})
		}
	}
	return requests
}
